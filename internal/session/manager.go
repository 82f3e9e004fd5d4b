package session

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fmpberger88/potion-shop/internal/config"
)

// Manager creates and destroys cookie-backed sessions. The cookie carries
// only the random session id; all state lives in the store.
type Manager struct {
	store      Store
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewManager builds a session manager. The Secure cookie flag is enabled
// only in production so local development over plain HTTP keeps working.
func NewManager(store Store, cfg config.SessionConfig, secure bool) *Manager {
	return &Manager{
		store:      store,
		cookieName: cfg.CookieName,
		ttl:        cfg.TTL(),
		secure:     secure,
	}
}

// Establish creates a new session for the user and sets the cookie.
func (m *Manager) Establish(ctx context.Context, c *fiber.Ctx, data Data) error {
	id := uuid.NewString()
	if err := m.store.Set(ctx, id, data, m.ttl); err != nil {
		return err
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    id,
		Expires:  time.Now().Add(m.ttl),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return nil
}

// Resolve returns the session data for the request cookie, if any.
func (m *Manager) Resolve(ctx context.Context, c *fiber.Ctx) (Data, error) {
	id := c.Cookies(m.cookieName)
	if id == "" {
		return Data{}, ErrNotFound
	}
	return m.store.Get(ctx, id)
}

// Terminate destroys the server-side session and expires the cookie.
func (m *Manager) Terminate(ctx context.Context, c *fiber.Ctx) error {
	id := c.Cookies(m.cookieName)
	if id != "" {
		if err := m.store.Delete(ctx, id); err != nil {
			return err
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		Secure:   m.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
	})
	return nil
}
