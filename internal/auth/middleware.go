package auth

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"

	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/repository"
	"github.com/fmpberger88/potion-shop/internal/session"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	User *domain.User
}

// Middleware resolves the session cookie and loads the principal. Requests
// without a live session pass through unauthenticated; route gates decide
// whether that is acceptable.
type Middleware struct {
	sessions *session.Manager
	users    repository.UserRepository
}

// NewMiddleware constructs middleware.
func NewMiddleware(sessions *session.Manager, users repository.UserRepository) *Middleware {
	return &Middleware{sessions: sessions, users: users}
}

// Handle loads the principal for the request when a session exists.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	data, err := m.sessions.Resolve(c.UserContext(), c)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) {
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	user, err := m.users.GetByID(c.UserContext(), data.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Session outlived the account; treat as unauthenticated.
			return c.Next()
		}
		return apperrors.MapError(err)
	}

	c.Locals(principalKey, &Principal{User: user})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
