package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/dto"
	"github.com/fmpberger88/potion-shop/internal/service"
)

// PasswordHandler exposes the forgot/reset password flow.
type PasswordHandler struct {
	auth *service.AuthService
}

// NewPasswordHandler constructs handler.
func NewPasswordHandler(authService *service.AuthService) *PasswordHandler {
	return &PasswordHandler{auth: authService}
}

// Forgot handles POST /password/forgot.
func (h *PasswordHandler) Forgot(c *fiber.Ctx) error {
	var req dto.ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	if err := h.auth.RequestPasswordReset(c.UserContext(), req.Email); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "password reset email sent"},
	})
}

// CheckToken handles GET /password/reset/:token, used by the reset form to
// detect an expired link before the user types a new password.
func (h *PasswordHandler) CheckToken(c *fiber.Ctx) error {
	if err := h.auth.CheckResetToken(c.UserContext(), c.Params("token")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"token": c.Params("token")},
	})
}

// Reset handles POST /password/reset/:token.
func (h *PasswordHandler) Reset(c *fiber.Ctx) error {
	var req dto.ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	err := h.auth.ResetPassword(c.UserContext(), c.Params("token"), service.ResetPasswordInput{
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{"message": "password updated"},
	})
}
