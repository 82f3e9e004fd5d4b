package dto

import (
	"time"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

// UserResponse is the public view of an account.
type UserResponse struct {
	ID         string    `json:"id"`
	Email      string    `json:"email"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Street     string    `json:"street"`
	Zip        string    `json:"zip_code"`
	City       string    `json:"city"`
	Country    string    `json:"country"`
	IsAdmin    bool      `json:"is_admin"`
	IsVerified bool      `json:"is_verified"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewUserResponse maps a domain user, omitting credentials and tokens.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:         user.ID,
		Email:      user.Email,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		Street:     user.Street,
		Zip:        user.Zip,
		City:       user.City,
		Country:    user.Country,
		IsAdmin:    user.IsAdmin,
		IsVerified: user.IsVerified,
		CreatedAt:  user.CreatedAt,
	}
}

// EditProfileRequest payload for account edits.
type EditProfileRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Street    string `json:"street"`
	Zip       string `json:"zip_code"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// EditPasswordRequest payload for password changes.
type EditPasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}
