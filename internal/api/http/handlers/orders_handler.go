package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/dto"
	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/service"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// OrdersHandler exposes order placement and history.
type OrdersHandler struct {
	orders *service.OrderService
}

// NewOrdersHandler constructs handler.
func NewOrdersHandler(orders *service.OrderService) *OrdersHandler {
	return &OrdersHandler{orders: orders}
}

// List handles GET /orders.
func (h *OrdersHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	orders, err := h.orders.ListForUser(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"orders": dto.NewOrderListResponse(orders)}})
}

// Place handles POST /orders/place.
func (h *OrdersHandler) Place(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), principal.User.ID)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"data": fiber.Map{"order": dto.NewOrderResponse(order)},
	})
}
