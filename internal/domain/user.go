package domain

import "time"

// User is the domain model for shop customers and administrators.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Street       string
	Zip          string
	City         string
	Country      string
	IsAdmin      bool
	IsVerified   bool

	// VerificationToken proves email ownership; cleared once consumed.
	VerificationToken *string

	// ResetPasswordToken and ResetPasswordExpires are set and cleared
	// together. A token is usable only before its expiry.
	ResetPasswordToken   *string
	ResetPasswordExpires *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ResetTokenValid reports whether the stored reset token matches and is unexpired.
func (u *User) ResetTokenValid(token string, now time.Time) bool {
	if u.ResetPasswordToken == nil || u.ResetPasswordExpires == nil {
		return false
	}
	return *u.ResetPasswordToken == token && now.Before(*u.ResetPasswordExpires)
}
