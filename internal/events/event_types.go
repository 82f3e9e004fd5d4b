package events

import (
	"time"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserRegistered         EventType = "user_registered"
	EventPasswordResetRequested EventType = "password_reset_requested"
	EventOrderPlaced            EventType = "order_placed"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	UserID    string      `json:"user_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// UserRegisteredPayload payload.
type UserRegisteredPayload struct {
	Email             string `json:"email"`
	FirstName         string `json:"first_name"`
	VerificationToken string `json:"verification_token"`
}

// PasswordResetRequestedPayload payload.
type PasswordResetRequestedPayload struct {
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// OrderPlacedPayload payload.
type OrderPlacedPayload struct {
	Email     string        `json:"email"`
	FirstName string        `json:"first_name"`
	Order     *domain.Order `json:"order"`
}
