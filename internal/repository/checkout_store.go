package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

// CheckoutStore opens the atomic unit of work for order placement. The
// stock check, stock decrement, order insert and cart delete all happen
// inside one transaction so concurrent checkouts cannot overdraw stock.
type CheckoutStore interface {
	Begin(ctx context.Context) (CheckoutTx, error)
}

// CheckoutTx is the transactional surface the checkout service drives.
type CheckoutTx interface {
	// CartForUpdate loads the user's cart and row-locks every product it
	// references, returning live price and stock per line.
	CartForUpdate(ctx context.Context, userID string) (*domain.Cart, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	CreateOrder(ctx context.Context, order *domain.Order) error
	DeleteCart(ctx context.Context, cartID string) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

type checkoutStore struct {
	pool *pgxpool.Pool
}

// NewCheckoutStore returns a Postgres-backed implementation.
func NewCheckoutStore(pool *pgxpool.Pool) CheckoutStore {
	return &checkoutStore{pool: pool}
}

func (s *checkoutStore) Begin(ctx context.Context) (CheckoutTx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &checkoutTx{tx: tx}, nil
}

type checkoutTx struct {
	tx pgx.Tx
}

func (t *checkoutTx) CartForUpdate(ctx context.Context, userID string) (*domain.Cart, error) {
	const cartQuery = `
        SELECT id, user_id, created_at, updated_at
        FROM carts WHERE user_id=$1`

	var cart domain.Cart
	if err := t.tx.QueryRow(ctx, cartQuery, userID).Scan(
		&cart.ID,
		&cart.UserID,
		&cart.CreatedAt,
		&cart.UpdatedAt,
	); err != nil {
		return nil, err
	}

	// Lock product rows in a stable order to avoid deadlocks between
	// concurrent checkouts touching the same products.
	const linesQuery = `
        SELECT ci.product_id, ci.quantity, p.name, p.price, p.stock
        FROM cart_items ci
        JOIN products p ON p.id = ci.product_id
        WHERE ci.cart_id=$1
        ORDER BY ci.product_id
        FOR UPDATE OF p`

	rows, err := t.tx.Query(ctx, linesQuery, cart.ID)
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

func (t *checkoutTx) DecrementStock(ctx context.Context, productID string, quantity int) error {
	const query = `
        UPDATE products SET stock = stock - $1, updated_at=NOW()
        WHERE id=$2 AND stock >= $1`

	cmd, err := t.tx.Exec(ctx, query, quantity, productID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return errors.New("stock underflow prevented")
	}
	return nil
}

func (t *checkoutTx) CreateOrder(ctx context.Context, order *domain.Order) error {
	const orderQuery = `
        INSERT INTO orders (user_id, total, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at`

	if err := t.tx.QueryRow(ctx, orderQuery,
		order.UserID,
		order.Total,
		order.Status,
	).Scan(&order.ID, &order.CreatedAt); err != nil {
		return err
	}

	const itemQuery = `
        INSERT INTO order_items (order_id, product_id, product_name, unit_price, quantity)
        VALUES ($1, $2, $3, $4, $5)`
	for _, item := range order.Items {
		if _, err := t.tx.Exec(ctx, itemQuery,
			order.ID,
			item.ProductID,
			item.ProductName,
			item.UnitPrice,
			item.Quantity,
		); err != nil {
			return err
		}
	}
	return nil
}

func (t *checkoutTx) DeleteCart(ctx context.Context, cartID string) error {
	_, err := t.tx.Exec(ctx, `DELETE FROM carts WHERE id=$1`, cartID)
	return err
}

func (t *checkoutTx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *checkoutTx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}
