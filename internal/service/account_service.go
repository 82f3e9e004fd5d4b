package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/repository"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
	"github.com/fmpberger88/potion-shop/pkg/validate"
)

// AccountService handles self-service profile and password management.
// Callers always operate on their own record; identity comes from the
// session, never from a request parameter.
type AccountService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(users repository.UserRepository, bcryptCost int) *AccountService {
	return &AccountService{users: users, bcryptCost: bcryptCost}
}

// Profile returns the caller's account record.
func (s *AccountService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", nil)
		}
		return nil, err
	}
	return user, nil
}

// ProfileInput carries the editable account fields.
type ProfileInput struct {
	Email     string `validate:"required,email"`
	FirstName string `validate:"required"`
	LastName  string `validate:"required"`
	Street    string `validate:"required"`
	Zip       string `validate:"required"`
	City      string `validate:"required"`
	Country   string `validate:"required"`
}

// UpdateProfile updates name, address and email of the caller's record.
func (s *AccountService) UpdateProfile(ctx context.Context, userID string, input ProfileInput) (*domain.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Email != user.Email {
		if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
			return nil, apperrors.NewConflict("DUPLICATE_EMAIL", "email is already registered", map[string]any{
				"email": "is already registered",
			})
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
	}

	user.Email = input.Email
	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Street = input.Street
	user.Zip = input.Zip
	user.City = input.City
	user.Country = input.Country

	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePasswordInput carries the password-change form fields.
type ChangePasswordInput struct {
	CurrentPassword string `validate:"required"`
	NewPassword     string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=NewPassword"`
}

// ChangePassword verifies the current password against the stored hash
// before accepting the new one.
func (s *AccountService) ChangePassword(ctx context.Context, userID string, input ChangePasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	user, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}

	if err := auth.ComparePassword(user.PasswordHash, input.CurrentPassword); err != nil {
		return apperrors.NewValidationError("validation failed", map[string]any{
			"current_password": "is incorrect",
		})
	}

	hash, err := auth.HashPassword(input.NewPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	user.PasswordHash = hash
	return s.users.Update(ctx, user)
}
