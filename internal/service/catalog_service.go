package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/fmpberger88/potion-shop/internal/domain"
	"github.com/fmpberger88/potion-shop/internal/repository"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
	"github.com/fmpberger88/potion-shop/pkg/validate"
)

// CatalogQuery carries the raw query-string filters from a listing request.
type CatalogQuery struct {
	Category     string
	MinPrice     string
	MaxPrice     string
	Availability string
}

// Normalize converts raw query values into a repository filter. Unknown
// categories, unparsable prices and unknown availability values drop the
// respective filter instead of failing the request.
func (q CatalogQuery) Normalize() repository.ProductFilter {
	var filter repository.ProductFilter

	if domain.ValidCategory(q.Category) {
		category := domain.ProductCategory(q.Category)
		filter.Category = &category
	}
	if q.MinPrice != "" {
		if min, err := strconv.ParseFloat(q.MinPrice, 64); err == nil {
			filter.MinPrice = &min
		}
	}
	if q.MaxPrice != "" {
		if max, err := strconv.ParseFloat(q.MaxPrice, 64); err == nil {
			filter.MaxPrice = &max
		}
	}
	switch q.Availability {
	case "inStock":
		inStock := true
		filter.InStock = &inStock
	case "outOfStock":
		inStock := false
		filter.InStock = &inStock
	}
	return filter
}

// CatalogService exposes catalog reads and admin-only writes.
type CatalogService struct {
	products repository.ProductRepository
}

// NewCatalogService builds the service.
func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// List returns products matching the conjunctive filters.
func (s *CatalogService) List(ctx context.Context, query CatalogQuery) ([]domain.Product, error) {
	return s.products.List(ctx, query.Normalize())
}

// Get returns a single product.
func (s *CatalogService) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("product", nil)
		}
		return nil, err
	}
	return product, nil
}

// ProductInput carries the create/edit form fields.
type ProductInput struct {
	Name        string  `validate:"required"`
	Category    string  `validate:"required,product_category"`
	Description string  `validate:"required"`
	ImageURL    *string `validate:"omitempty"`
	Price       float64 `validate:"gte=0"`
	Stock       int     `validate:"gte=0"`
}

// Create adds a catalog entry.
func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	product := &domain.Product{
		Name:        input.Name,
		Category:    domain.ProductCategory(input.Category),
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Price:       input.Price,
		Stock:       input.Stock,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Update replaces a catalog entry's fields.
func (s *CatalogService) Update(ctx context.Context, id string, input ProductInput) (*domain.Product, error) {
	if err := validate.Struct(input); err != nil {
		return nil, err
	}

	product, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	product.Name = input.Name
	product.Category = domain.ProductCategory(input.Category)
	product.Description = input.Description
	product.ImageURL = input.ImageURL
	product.Price = input.Price
	product.Stock = input.Stock

	if err := s.products.Update(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// Delete removes a catalog entry.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	if err := s.products.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("product", nil)
		}
		return err
	}
	return nil
}
