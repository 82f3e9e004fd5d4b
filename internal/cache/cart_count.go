package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss signals the count is not cached; callers recompute from the cart.
var ErrMiss = errors.New("cache miss")

// CartCountCache stores the derived per-user cart line count. The entry is
// a hint with a fixed TTL, never the source of truth.
type CartCountCache interface {
	Get(ctx context.Context, userID string) (int, error)
	Set(ctx context.Context, userID string, count int) error
	Invalidate(ctx context.Context, userID string) error
}

type redisCartCount struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCartCountCache returns a Redis-backed cart count cache.
func NewCartCountCache(client *redis.Client, ttl time.Duration) CartCountCache {
	return &redisCartCount{client: client, ttl: ttl}
}

func cartCountKey(userID string) string {
	return fmt.Sprintf("cartItemCount:%s", userID)
}

func (c *redisCartCount) Get(ctx context.Context, userID string) (int, error) {
	count, err := c.client.Get(ctx, cartCountKey(userID)).Int()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrMiss
		}
		return 0, err
	}
	return count, nil
}

func (c *redisCartCount) Set(ctx context.Context, userID string, count int) error {
	return c.client.Set(ctx, cartCountKey(userID), count, c.ttl).Err()
}

func (c *redisCartCount) Invalidate(ctx context.Context, userID string) error {
	return c.client.Del(ctx, cartCountKey(userID)).Err()
}
