package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fmpberger88/potion-shop/internal/cache"
	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/events"
	"github.com/fmpberger88/potion-shop/internal/repository"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// OrderService places orders and lists order history.
type OrderService struct {
	checkout   repository.CheckoutStore
	orders     repository.OrderRepository
	users      repository.UserRepository
	counts     cache.CartCountCache
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// OrderDependencies bundles requirements for the order service.
type OrderDependencies struct {
	CheckoutStore repository.CheckoutStore
	OrderRepo     repository.OrderRepository
	UserRepo      repository.UserRepository
	CountCache    cache.CartCountCache
	Dispatcher    events.Dispatcher
}

// NewOrderService builds the service.
func NewOrderService(deps OrderDependencies, logger *zap.Logger) *OrderService {
	return &OrderService{
		checkout:   deps.CheckoutStore,
		orders:     deps.OrderRepo,
		users:      deps.UserRepo,
		counts:     deps.CountCache,
		dispatcher: deps.Dispatcher,
		logger:     logger,
	}
}

// PlaceOrder converts the user's cart into an immutable order. The stock
// check, stock decrement, order insert and cart delete run in a single
// transaction against row-locked products, so a concurrent checkout cannot
// pass the check and overdraw stock. Any line failing the stock check
// rejects the whole order; no partial orders exist.
func (s *OrderService) PlaceOrder(ctx context.Context, userID string) (*domain.Order, error) {
	tx, err := s.checkout.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	cart, err := tx.CartForUpdate(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("cart", nil)
		}
		return nil, err
	}
	if len(cart.Lines) == 0 {
		return nil, apperrors.NewBusinessRule("CART_EMPTY", "cart is empty", nil)
	}

	var total float64
	items := make([]domain.OrderItem, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		if line.Quantity > line.Stock {
			return nil, apperrors.NewBusinessRule("INSUFFICIENT_STOCK",
				"insufficient stock for product "+line.ProductName,
				map[string]any{
					"product_id": line.ProductID,
					"requested":  line.Quantity,
					"available":  line.Stock,
				})
		}
		total += line.UnitPrice * float64(line.Quantity)
		items = append(items, domain.OrderItem{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
		})
	}

	for _, line := range cart.Lines {
		if err := tx.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			return nil, err
		}
	}

	order := &domain.Order{
		UserID: userID,
		Items:  items,
		Total:  total,
		Status: domain.OrderStatusPending,
	}
	if err := tx.CreateOrder(ctx, order); err != nil {
		return nil, err
	}
	if err := tx.DeleteCart(ctx, cart.ID); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true

	// The cart is gone; drop the derived count so the next read recomputes.
	if err := s.counts.Invalidate(ctx, userID); err != nil {
		s.logger.Warn("cart count cache invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}

	s.notifyPlaced(ctx, userID, order)
	return order, nil
}

// ListForUser returns the caller's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}

// notifyPlaced dispatches the confirmation only after the order is durable.
func (s *OrderService) notifyPlaced(ctx context.Context, userID string, order *domain.Order) {
	if s.dispatcher == nil {
		return
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		s.logger.Warn("order placed but user lookup for notification failed",
			zap.String("order_id", order.ID), zap.Error(err))
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventOrderPlaced,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload: events.OrderPlacedPayload{
			Email:     user.Email,
			FirstName: user.FirstName,
			Order:     order,
		},
	})
}
