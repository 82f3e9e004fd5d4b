package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/config"
	"github.com/fmpberger88/potion-shop/internal/events"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

func newTestAuthService(users *fakeUserRepo, dispatcher *fakeDispatcher) *AuthService {
	return NewAuthService(config.AuthConfig{BcryptCost: 4, PasswordResetTTLMinutes: 60}, AuthDependencies{
		UserRepo:   users,
		Dispatcher: dispatcher,
	})
}

func validRegisterInput() RegisterInput {
	return RegisterInput{
		Email:           "anna@example.com",
		Password:        "correct-horse",
		ConfirmPassword: "correct-horse",
		FirstName:       "Anna",
		LastName:        "Huber",
		Street:          "Bergweg 3",
		Zip:             "6020",
		City:            "Innsbruck",
		Country:         "Austria",
	}
}

func TestRegisterIssuesVerificationToken(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestAuthService(users, dispatcher)

	user, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.VerificationToken == nil || *user.VerificationToken == "" {
		t.Fatal("expected verification token to be set")
	}
	if user.IsVerified {
		t.Fatal("new account must start unverified")
	}
	if user.PasswordHash == "correct-horse" {
		t.Fatal("password stored in plaintext")
	}

	published := dispatcher.byType(events.EventUserRegistered)
	if len(published) != 1 {
		t.Fatalf("expected 1 registration event, got %d", len(published))
	}
	payload := published[0].Payload.(events.UserRegisteredPayload)
	if payload.VerificationToken != *user.VerificationToken {
		t.Fatal("event carries a different verification token")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeDispatcher{})

	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(context.Background(), validRegisterInput())
	if err == nil {
		t.Fatal("expected duplicate email rejection")
	}
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "DUPLICATE_EMAIL" {
		t.Fatalf("expected DUPLICATE_EMAIL, got %v", err)
	}
	if users.count() != 1 {
		t.Fatalf("expected 1 stored account, got %d", users.count())
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeDispatcher{})

	input := validRegisterInput()
	input.ConfirmPassword = "different"
	input.Zip = "12"

	_, err := svc.Register(context.Background(), input)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %v", err)
	}
	if _, ok := domainErr.Details["confirm_password"]; !ok {
		t.Fatalf("expected confirm_password detail, got %v", domainErr.Details)
	}
	if _, ok := domainErr.Details["zip"]; !ok {
		t.Fatalf("expected zip detail, got %v", domainErr.Details)
	}
}

func TestLoginDoesNotRevealWhichFieldFailed(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeDispatcher{})
	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, unknownErr := svc.Login(context.Background(), "nobody@example.com", "whatever")
	_, wrongErr := svc.Login(context.Background(), "anna@example.com", "not-the-password")

	for _, err := range []error{unknownErr, wrongErr} {
		var domainErr *apperrors.DomainError
		if !errors.As(err, &domainErr) || domainErr.Code != "UNAUTHORIZED" {
			t.Fatalf("expected UNAUTHORIZED, got %v", err)
		}
	}
	if unknownErr.Error() != wrongErr.Error() {
		t.Fatalf("login errors must not distinguish cases: %q vs %q", unknownErr, wrongErr)
	}

	user, err := svc.Login(context.Background(), "anna@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("valid login: %v", err)
	}
	if user.Email != "anna@example.com" {
		t.Fatalf("unexpected principal %q", user.Email)
	}
}

func TestVerifyEmailConsumesToken(t *testing.T) {
	users := newFakeUserRepo()
	svc := newTestAuthService(users, &fakeDispatcher{})
	registered, err := svc.Register(context.Background(), validRegisterInput())
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	token := *registered.VerificationToken

	user, err := svc.VerifyEmail(context.Background(), token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !user.IsVerified || user.VerificationToken != nil {
		t.Fatal("expected verified account with cleared token")
	}

	if _, err := svc.VerifyEmail(context.Background(), token); err == nil {
		t.Fatal("token must not be reusable")
	}
}

func TestRequestPasswordResetOverwritesToken(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestAuthService(users, dispatcher)
	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.RequestPasswordReset(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("first request: %v", err)
	}
	first := dispatcher.byType(events.EventPasswordResetRequested)[0].Payload.(events.PasswordResetRequestedPayload)

	if err := svc.RequestPasswordReset(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("second request: %v", err)
	}
	second := dispatcher.byType(events.EventPasswordResetRequested)[1].Payload.(events.PasswordResetRequestedPayload)

	if first.Token == second.Token {
		t.Fatal("re-issue must mint a fresh token")
	}
	if err := svc.CheckResetToken(context.Background(), first.Token); err == nil {
		t.Fatal("overwritten token must no longer be usable")
	}
	if err := svc.CheckResetToken(context.Background(), second.Token); err != nil {
		t.Fatalf("latest token should be usable: %v", err)
	}
}

func TestRequestPasswordResetUnknownEmail(t *testing.T) {
	svc := newTestAuthService(newFakeUserRepo(), &fakeDispatcher{})

	err := svc.RequestPasswordReset(context.Background(), "nobody@example.com")
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "UNKNOWN_EMAIL" {
		t.Fatalf("expected UNKNOWN_EMAIL, got %v", err)
	}
}

func TestResetPasswordSingleUse(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestAuthService(users, dispatcher)
	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := svc.RequestPasswordReset(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := dispatcher.byType(events.EventPasswordResetRequested)[0].Payload.(events.PasswordResetRequestedPayload).Token

	input := ResetPasswordInput{Password: "brand-new-pass", ConfirmPassword: "brand-new-pass"}
	if err := svc.ResetPassword(context.Background(), token, input); err != nil {
		t.Fatalf("reset: %v", err)
	}

	user, err := users.GetByEmail(context.Background(), "anna@example.com")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if user.ResetPasswordToken != nil || user.ResetPasswordExpires != nil {
		t.Fatal("token pair must be cleared after use")
	}
	if err := auth.ComparePassword(user.PasswordHash, "brand-new-pass"); err != nil {
		t.Fatal("new password not stored")
	}

	err = svc.ResetPassword(context.Background(), token, input)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "TOKEN_INVALID" {
		t.Fatalf("second use must fail with TOKEN_INVALID, got %v", err)
	}
}

func TestResetPasswordExpiredToken(t *testing.T) {
	users := newFakeUserRepo()
	dispatcher := &fakeDispatcher{}
	svc := newTestAuthService(users, dispatcher)
	if _, err := svc.Register(context.Background(), validRegisterInput()); err != nil {
		t.Fatalf("register: %v", err)
	}

	issued := time.Now()
	svc.now = func() time.Time { return issued }
	if err := svc.RequestPasswordReset(context.Background(), "anna@example.com"); err != nil {
		t.Fatalf("request: %v", err)
	}
	token := dispatcher.byType(events.EventPasswordResetRequested)[0].Payload.(events.PasswordResetRequestedPayload).Token

	svc.now = func() time.Time { return issued.Add(61 * time.Minute) }
	err := svc.CheckResetToken(context.Background(), token)
	var domainErr *apperrors.DomainError
	if !errors.As(err, &domainErr) || domainErr.Code != "TOKEN_INVALID" {
		t.Fatalf("expected TOKEN_INVALID after expiry, got %v", err)
	}
}
