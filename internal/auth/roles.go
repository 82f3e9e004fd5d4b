package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// RequireAuthenticated ensures a logged-in principal is present.
func RequireAuthenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := PrincipalFromContext(c); !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		return c.Next()
	}
}

// RequireAdmin ensures the principal is authenticated and carries the admin flag.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.User == nil || !principal.User.IsAdmin {
			return apperrors.NewForbidden("admin privileges required")
		}
		return c.Next()
	}
}
