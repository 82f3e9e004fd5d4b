package dto

import (
	"time"

	"github.com/fmpberger88/potion-shop/internal/domain"
)

// ProductRequest payload for create and edit.
type ProductRequest struct {
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	ImageURL    *string `json:"image_url"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
}

// ProductResponse is the public view of a catalog entry.
type ProductResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	ImageURL    *string   `json:"image_url,omitempty"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	InStock     bool      `json:"in_stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProductResponse maps a domain product.
func NewProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    string(p.Category),
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price,
		Stock:       p.Stock,
		InStock:     p.InStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// NewProductListResponse maps a product slice.
func NewProductListResponse(products []domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for i := range products {
		out = append(out, NewProductResponse(&products[i]))
	}
	return out
}
