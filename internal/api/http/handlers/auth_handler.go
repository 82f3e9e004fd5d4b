package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/dto"
	"github.com/fmpberger88/potion-shop/internal/service"
	"github.com/fmpberger88/potion-shop/internal/session"
)

// AuthHandler exposes sign-up, log-in, log-out and email verification.
type AuthHandler struct {
	auth     *service.AuthService
	sessions *session.Manager
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{auth: authService, sessions: sessions}
}

// SignUp handles POST /auth/sign-up.
func (h *AuthHandler) SignUp(c *fiber.Ctx) error {
	var req dto.SignUpRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.Register(c.UserContext(), service.RegisterInput{
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Street:          req.Street,
		Zip:             req.Zip,
		City:            req.City,
		Country:         req.Country,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// LogIn handles POST /auth/log-in.
func (h *AuthHandler) LogIn(c *fiber.Ctx) error {
	var req dto.LogInRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	user, err := h.auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	if err := h.sessions.Establish(c.UserContext(), c, session.Data{
		UserID:  user.ID,
		IsAdmin: user.IsAdmin,
	}); err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}

// LogOut handles GET /auth/log-out.
func (h *AuthHandler) LogOut(c *fiber.Ctx) error {
	if err := h.sessions.Terminate(c.UserContext(), c); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "logged out"}})
}

// VerifyEmail handles GET /auth/verify-email?token=.
func (h *AuthHandler) VerifyEmail(c *fiber.Ctx) error {
	user, err := h.auth.VerifyEmail(c.UserContext(), c.Query("token"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"user": dto.NewUserResponse(user)},
	})
}
