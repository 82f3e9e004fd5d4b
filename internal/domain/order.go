package domain

import "time"

// OrderStatus tracks fulfilment progress of an order.
type OrderStatus string

const (
	OrderStatusPending OrderStatus = "pending"
	OrderStatusShipped OrderStatus = "shipped"
)

// OrderItem is an immutable snapshot of a cart line at checkout time.
type OrderItem struct {
	ProductID   string
	ProductName string
	UnitPrice   float64
	Quantity    int
}

// Order records a completed purchase. Orders are never mutated after
// creation; items and total reflect catalog state at the moment of checkout.
type Order struct {
	ID        string
	UserID    string
	Items     []OrderItem
	Total     float64
	Status    OrderStatus
	CreatedAt time.Time
}
