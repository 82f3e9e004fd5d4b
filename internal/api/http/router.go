package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/fmpberger88/potion-shop/internal/api/http/handlers"
	"github.com/fmpberger88/potion-shop/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Password       *handlers.PasswordHandler
	Cart           *handlers.CartHandler
	Orders         *handlers.OrdersHandler
	Products       *handlers.ProductsHandler
	Account        *handlers.AccountHandler
	AuthMiddleware *auth.Middleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	// Session resolution runs for every route; gates below decide access.
	app.Use(cfg.AuthMiddleware.Handle)

	authGroup := app.Group("/auth")
	authGroup.Post("/sign-up", cfg.Auth.SignUp)
	authGroup.Post("/log-in", cfg.Auth.LogIn)
	authGroup.Get("/log-out", cfg.Auth.LogOut)
	authGroup.Get("/verify-email", cfg.Auth.VerifyEmail)

	passwordGroup := app.Group("/password")
	passwordGroup.Post("/forgot", cfg.Password.Forgot)
	passwordGroup.Get("/reset/:token", cfg.Password.CheckToken)
	passwordGroup.Post("/reset/:token", cfg.Password.Reset)

	products := app.Group("/products")
	products.Get("/", cfg.Products.List)
	products.Post("/create", auth.RequireAdmin(), cfg.Products.Create)
	products.Post("/:id/edit", auth.RequireAdmin(), cfg.Products.Update)
	products.Post("/:id/delete", auth.RequireAdmin(), cfg.Products.Delete)
	products.Get("/:id", cfg.Products.Get)

	cart := app.Group("/cart", auth.RequireAuthenticated())
	cart.Get("/", cfg.Cart.View)
	cart.Get("/count", cfg.Cart.Count)
	cart.Post("/add/:productId", cfg.Cart.Add)
	cart.Post("/remove/:productId", cfg.Cart.Remove)

	orders := app.Group("/orders", auth.RequireAuthenticated())
	orders.Get("/", cfg.Orders.List)
	orders.Post("/place", cfg.Orders.Place)

	account := app.Group("/user", auth.RequireAuthenticated())
	account.Get("/", cfg.Account.Profile)
	account.Post("/edit", cfg.Account.Edit)
	account.Post("/edit-password", cfg.Account.EditPassword)
}
