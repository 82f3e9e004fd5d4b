package service

import (
	"context"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/fmpberger88/potion-shop/internal/config"
	"github.com/fmpberger88/potion-shop/internal/events"
	"github.com/fmpberger88/potion-shop/internal/mail"
)

// NotificationService turns domain events into transactional email and an
// optional webhook call. Delivery failures are logged, never surfaced to
// the request that triggered them.
type NotificationService struct {
	dispatcher events.Dispatcher
	sender     mail.Sender
	webhook    *resty.Client
	logger     *zap.Logger
	baseURL    string
	webhookURL string
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, sender mail.Sender, logger *zap.Logger, app config.AppConfig, cfg config.NotificationConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		sender:     sender,
		webhook:    resty.New(),
		logger:     logger,
		baseURL:    app.BaseURL,
		webhookURL: cfg.WebhookURL,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventUserRegistered, n.handleUserRegistered)
	n.dispatcher.Subscribe(events.EventPasswordResetRequested, n.handlePasswordResetRequested)
	n.dispatcher.Subscribe(events.EventOrderPlaced, n.handleOrderPlaced)
}

func (n *NotificationService) handleUserRegistered(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.UserRegisteredPayload)
	if !ok {
		return nil
	}

	subject, body, err := mail.RenderVerification(payload.FirstName, n.baseURL, payload.VerificationToken)
	if err != nil {
		n.logger.Error("render verification email", zap.Error(err))
		return err
	}
	n.send(ctx, payload.Email, subject, body)
	return nil
}

func (n *NotificationService) handlePasswordResetRequested(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.PasswordResetRequestedPayload)
	if !ok {
		return nil
	}

	subject, body, err := mail.RenderPasswordReset(payload.FirstName, n.baseURL, payload.Token)
	if err != nil {
		n.logger.Error("render reset email", zap.Error(err))
		return err
	}
	n.send(ctx, payload.Email, subject, body)
	return nil
}

func (n *NotificationService) handleOrderPlaced(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.OrderPlacedPayload)
	if !ok || payload.Order == nil {
		return nil
	}

	subject, body, err := mail.RenderOrderConfirmation(payload.FirstName, payload.Order)
	if err != nil {
		n.logger.Error("render order confirmation", zap.Error(err))
		return err
	}
	n.send(ctx, payload.Email, subject, body)
	n.sendWebhook(ctx, event)
	return nil
}

func (n *NotificationService) send(ctx context.Context, to, subject, body string) {
	if err := n.sender.Send(ctx, to, subject, body); err != nil {
		n.logger.Error("email delivery failed",
			zap.String("to", to), zap.String("subject", subject), zap.Error(err))
	}
}

func (n *NotificationService) sendWebhook(ctx context.Context, event events.Event) {
	if n.webhookURL == "" {
		return
	}
	resp, err := n.webhook.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(event).
		Post(n.webhookURL)
	if err != nil {
		n.logger.Warn("webhook delivery failed", zap.Error(err))
		return
	}
	if resp.StatusCode() >= 300 {
		n.logger.Warn("webhook rejected",
			zap.Int("status", resp.StatusCode()), zap.String("event_type", string(event.Type)))
	}
}
