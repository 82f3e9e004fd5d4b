package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

// CartRepository defines persistence access for per-user carts.
type CartRepository interface {
	// GetByUser returns the user's cart with product data joined into each
	// line, or pgx.ErrNoRows when the user has no cart.
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	// CreateForUser inserts an empty cart for the user.
	CreateForUser(ctx context.Context, userID string) (*domain.Cart, error)
	// ReplaceLines rewrites the cart's lines to match the domain object.
	ReplaceLines(ctx context.Context, cart *domain.Cart) error
	// DeleteByUser removes the user's cart and its lines.
	DeleteByUser(ctx context.Context, userID string) error
}

type cartRepository struct {
	pool *pgxpool.Pool
}

// NewCartRepository returns a Postgres-backed implementation.
func NewCartRepository(pool *pgxpool.Pool) CartRepository {
	return &cartRepository{pool: pool}
}

func (r *cartRepository) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
        SELECT id, user_id, created_at, updated_at
        FROM carts WHERE user_id=$1`

	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}

	const linesQuery = `
        SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id=$1
        ORDER BY ci.position`

	rows, err := r.pool.Query(ctx, linesQuery, cart.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var line domain.CartLine
		if err := rows.Scan(
			&line.ProductID,
			&line.Quantity,
			&line.ProductName,
			&line.UnitPrice,
			&line.Stock,
		); err != nil {
			return nil, err
		}
		cart.Lines = append(cart.Lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) CreateForUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const query = `
        INSERT INTO carts (user_id)
        VALUES ($1)
        RETURNING id, user_id, created_at, updated_at`

	var cart domain.Cart
	if err := r.pool.QueryRow(ctx, query, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepository) ReplaceLines(ctx context.Context, cart *domain.Cart) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE cart_id=$1`, cart.ID); err != nil {
		return err
	}

	const insert = `
        INSERT INTO cart_items (cart_id, product_id, quantity, position)
        VALUES ($1, $2, $3, $4)`
	for i, line := range cart.Lines {
		if _, err := tx.Exec(ctx, insert, cart.ID, line.ProductID, line.Quantity, i); err != nil {
			return err
		}
	}

	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at=NOW() WHERE id=$1`, cart.ID); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *cartRepository) DeleteByUser(ctx context.Context, userID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM carts WHERE user_id=$1`, userID)
	return err
}
