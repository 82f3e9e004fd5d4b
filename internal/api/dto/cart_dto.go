package dto

import "github.com/fmpberger88/potion-shop/internal/domain"

// AddToCartRequest payload for cart additions.
type AddToCartRequest struct {
	Quantity int `json:"quantity"`
}

// CartLineResponse is one line of the cart view.
type CartLineResponse struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity"`
	LineTotal   float64 `json:"line_total"`
}

// CartResponse is the full cart view with the running total.
type CartResponse struct {
	Items     []CartLineResponse `json:"items"`
	ItemCount int                `json:"item_count"`
	Total     float64            `json:"total"`
}

// NewCartResponse maps a domain cart; a nil cart maps to the empty view.
func NewCartResponse(cart *domain.Cart) CartResponse {
	resp := CartResponse{Items: []CartLineResponse{}}
	if cart == nil {
		return resp
	}
	for _, line := range cart.Lines {
		resp.Items = append(resp.Items, CartLineResponse{
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			UnitPrice:   line.UnitPrice,
			Quantity:    line.Quantity,
			LineTotal:   line.UnitPrice * float64(line.Quantity),
		})
	}
	resp.ItemCount = cart.LineCount()
	resp.Total = cart.Total()
	return resp
}
