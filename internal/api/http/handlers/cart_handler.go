package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/dto"
	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/service"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// CartHandler exposes the authenticated cart endpoints.
type CartHandler struct {
	carts *service.CartService
}

// NewCartHandler constructs handler.
func NewCartHandler(carts *service.CartService) *CartHandler {
	return &CartHandler{carts: carts}
}

// View handles GET /cart.
func (h *CartHandler) View(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	cart, err := h.carts.Get(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cart": dto.NewCartResponse(cart)}})
}

// Add handles POST /cart/add/:productId.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.AddToCartRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid payload")
	}

	cart, err := h.carts.AddItem(c.UserContext(), principal.User.ID, c.Params("productId"), req.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cart": dto.NewCartResponse(cart)}})
}

// Remove handles POST /cart/remove/:productId.
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	cart, err := h.carts.RemoveItem(c.UserContext(), principal.User.ID, c.Params("productId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"cart": dto.NewCartResponse(cart)}})
}

// Count handles GET /cart/count.
func (h *CartHandler) Count(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	count, err := h.carts.ItemCount(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"count": count}})
}
