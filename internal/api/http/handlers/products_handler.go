package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/dto"
	"github.com/fmpberger88/potion-shop/internal/service"
)

// ProductsHandler exposes catalog reads and admin writes.
type ProductsHandler struct {
	catalog *service.CatalogService
}

// NewProductsHandler constructs handler.
func NewProductsHandler(catalog *service.CatalogService) *ProductsHandler {
	return &ProductsHandler{catalog: catalog}
}

// List handles GET /products with optional query filters.
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	products, err := h.catalog.List(c.UserContext(), service.CatalogQuery{
		Category:     c.Query("category"),
		MinPrice:     c.Query("minPrice"),
		MaxPrice:     c.Query("maxPrice"),
		Availability: c.Query("availability"),
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"products": dto.NewProductListResponse(products)}})
}

// Get handles GET /products/:id.
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	product, err := h.catalog.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"product": dto.NewProductResponse(product)}})
}

// Create handles POST /products/create (admin only).
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.catalog.Create(c.UserContext(), productInput(req))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"product": dto.NewProductResponse(product)},
	})
}

// Update handles POST /products/:id/edit (admin only).
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	var req dto.ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	product, err := h.catalog.Update(c.UserContext(), c.Params("id"), productInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"product": dto.NewProductResponse(product)}})
}

// Delete handles POST /products/:id/delete (admin only).
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	if err := h.catalog.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"message": "product deleted"}})
}

func productInput(req dto.ProductRequest) service.ProductInput {
	return service.ProductInput{
		Name:        req.Name,
		Category:    req.Category,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Price:       req.Price,
		Stock:       req.Stock,
	}
}
