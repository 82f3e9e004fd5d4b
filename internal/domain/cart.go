package domain

import "time"

// CartLine is one (product, quantity) pair inside a cart.
type CartLine struct {
	ProductID string
	Quantity  int

	// Denormalized product data for display; populated on read.
	ProductName string
	UnitPrice   float64
	Stock       int
}

// Cart holds a user's pending purchase lines. Each user owns at most one
// cart; it is created on the first add and deleted on successful checkout.
type Cart struct {
	ID        string
	UserID    string
	Lines     []CartLine
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Merge adds quantity to an existing line for the product, or appends a new
// line. Lines never duplicate a product.
func (c *Cart) Merge(productID string, quantity int) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			return
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: quantity})
}

// Remove filters out the line for the product. Removing an absent product
// is not an error.
func (c *Cart) Remove(productID string) {
	filtered := c.Lines[:0]
	for _, line := range c.Lines {
		if line.ProductID != productID {
			filtered = append(filtered, line)
		}
	}
	c.Lines = filtered
}

// LineCount returns the number of distinct lines in the cart.
func (c *Cart) LineCount() int {
	return len(c.Lines)
}

// Total computes the running cost of the cart from its populated lines.
func (c *Cart) Total() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.UnitPrice * float64(line.Quantity)
	}
	return total
}
