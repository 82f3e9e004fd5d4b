package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/config"
	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/events"
	"github.com/fmpberger88/potion-shop/internal/repository"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
	"github.com/fmpberger88/potion-shop/pkg/validate"
)

// AuthService coordinates registration, credential and token flows.
type AuthService struct {
	users      repository.UserRepository
	dispatcher events.Dispatcher
	bcryptCost int
	resetTTL   time.Duration
	now        func() time.Time
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	return &AuthService{
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		bcryptCost: cfg.BcryptCost,
		resetTTL:   cfg.ResetTTL(),
		now:        time.Now,
	}
}

// RegisterInput carries the sign-up form fields.
type RegisterInput struct {
	Email           string `validate:"required,email"`
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
	FirstName       string `validate:"required"`
	LastName        string `validate:"required"`
	Street          string `validate:"required"`
	Zip             string `validate:"required,min=4"`
	City            string `validate:"required"`
	Country         string `validate:"required"`
}

// Register creates a new account. Duplicate emails are rejected without
// creating a second record; a verification email is dispatched on success.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, apperrors.NewConflict("DUPLICATE_EMAIL", "email is already registered", map[string]any{
			"email": "is already registered",
		})
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	user := &domain.User{
		Email:             input.Email,
		PasswordHash:      hash,
		FirstName:         input.FirstName,
		LastName:          input.LastName,
		Street:            input.Street,
		Zip:               input.Zip,
		City:              input.City,
		Country:           input.Country,
		VerificationToken: &token,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventUserRegistered,
		UserID: user.ID,
		Payload: events.UserRegisteredPayload{
			Email:             user.Email,
			FirstName:         user.FirstName,
			VerificationToken: token,
		},
	})
	return user, nil
}

// Login verifies credentials. Any mismatch yields the same generic error so
// callers cannot probe which emails exist.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewUnauthorized("invalid email or password")
		}
		return nil, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewUnauthorized("invalid email or password")
	}
	return user, nil
}

// VerifyEmail consumes a verification token and marks the account verified.
func (s *AuthService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, apperrors.NewBusinessRule("TOKEN_INVALID", "verification token is invalid", nil)
	}

	user, err := s.users.GetByVerificationToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewBusinessRule("TOKEN_INVALID", "verification token is invalid", nil)
		}
		return nil, err
	}

	user.IsVerified = true
	user.VerificationToken = nil
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// RequestPasswordReset issues a fresh time-boxed token, overwriting any
// previously issued one, and dispatches the reset email.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewBusinessRule("UNKNOWN_EMAIL", "no account with that email address", nil)
		}
		return err
	}

	token := uuid.NewString()
	expires := s.now().Add(s.resetTTL)
	user.ResetPasswordToken = &token
	user.ResetPasswordExpires = &expires
	if err := s.users.Update(ctx, user); err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:   events.EventPasswordResetRequested,
		UserID: user.ID,
		Payload: events.PasswordResetRequestedPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			Token:     token,
			ExpiresAt: expires,
		},
	})
	return nil
}

// CheckResetToken reports whether the token is currently usable.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.userForResetToken(ctx, token)
	return err
}

// ResetPasswordInput carries the reset form fields.
type ResetPasswordInput struct {
	Password        string `validate:"required,min=8"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

// ResetPassword consumes a valid token: the new password is hashed and the
// token pair is cleared, so the token is usable exactly once.
func (s *AuthService) ResetPassword(ctx context.Context, token string, input ResetPasswordInput) error {
	if err := validate.Struct(input); err != nil {
		return err
	}

	user, err := s.userForResetToken(ctx, token)
	if err != nil {
		return err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return err
	}

	user.PasswordHash = hash
	user.ResetPasswordToken = nil
	user.ResetPasswordExpires = nil
	return s.users.Update(ctx, user)
}

func (s *AuthService) userForResetToken(ctx context.Context, token string) (*domain.User, error) {
	invalid := apperrors.NewBusinessRule("TOKEN_INVALID", "password reset token is invalid or has expired", nil)
	if token == "" {
		return nil, invalid
	}

	user, err := s.users.GetByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, invalid
		}
		return nil, err
	}
	if !user.ResetTokenValid(token, s.now()) {
		return nil, invalid
	}
	return user, nil
}

func (s *AuthService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
