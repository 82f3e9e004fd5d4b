package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/fmpberger88/potion-shop/internal/cache"
	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/repository"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// CartService coordinates cart mutations and the derived item-count cache.
type CartService struct {
	carts    repository.CartRepository
	products repository.ProductRepository
	counts   cache.CartCountCache
	logger   *zap.Logger
}

// CartDependencies bundles requirements for the cart service.
type CartDependencies struct {
	CartRepo    repository.CartRepository
	ProductRepo repository.ProductRepository
	CountCache  cache.CartCountCache
}

// NewCartService builds the service.
func NewCartService(deps CartDependencies, logger *zap.Logger) *CartService {
	return &CartService{
		carts:    deps.CartRepo,
		products: deps.ProductRepo,
		counts:   deps.CountCache,
		logger:   logger,
	}
}

// Get returns the user's cart, or nil when none exists yet.
func (s *CartService) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

// AddItem merges the quantity into the user's single cart, creating the
// cart on first use, then refreshes the cached line count.
func (s *CartService) AddItem(ctx context.Context, userID, productID string, quantity int) (*domain.Cart, error) {
	if quantity <= 0 {
		return nil, apperrors.NewValidationError("validation failed", map[string]any{
			"quantity": "must be a positive integer",
		})
	}

	if _, err := s.products.GetByID(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		cart, err = s.carts.CreateForUser(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	cart.Merge(productID, quantity)
	if err := s.carts.ReplaceLines(ctx, cart); err != nil {
		return nil, err
	}

	s.refreshCount(ctx, userID, cart.LineCount())
	return cart, nil
}

// RemoveItem filters out the product's line. Removing an absent product is
// a no-op; a missing cart is not.
func (s *CartService) RemoveItem(ctx context.Context, userID, productID string) (*domain.Cart, error) {
	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("cart", nil)
		}
		return nil, err
	}

	cart.Remove(productID)
	if err := s.carts.ReplaceLines(ctx, cart); err != nil {
		return nil, err
	}

	s.refreshCount(ctx, userID, cart.LineCount())
	return cart, nil
}

// ItemCount returns the cached line count, recomputing from the cart on a
// miss and re-priming the cache. The cache is a hint, never authoritative.
func (s *CartService) ItemCount(ctx context.Context, userID string) (int, error) {
	count, err := s.counts.Get(ctx, userID)
	if err == nil {
		return count, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.logger.Warn("cart count cache read failed", zap.Error(err))
	}

	cart, err := s.carts.GetByUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.refreshCount(ctx, userID, 0)
			return 0, nil
		}
		return 0, err
	}

	count = cart.LineCount()
	s.refreshCount(ctx, userID, count)
	return count, nil
}

// refreshCount overwrites the cached count after a mutation. Cache failures
// are logged but never fail the request.
func (s *CartService) refreshCount(ctx context.Context, userID string, count int) {
	if err := s.counts.Set(ctx, userID, count); err != nil {
		s.logger.Warn("cart count cache refresh failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
