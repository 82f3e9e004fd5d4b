package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/fmpberger88/potion-shop/internal/api/http"
	"github.com/fmpberger88/potion-shop/internal/api/http/handlers"
	"github.com/fmpberger88/potion-shop/internal/auth"
	"github.com/fmpberger88/potion-shop/internal/cache"
	"github.com/fmpberger88/potion-shop/internal/config"
	"github.com/fmpberger88/potion-shop/internal/events"
	"github.com/fmpberger88/potion-shop/internal/mail"
	"github.com/fmpberger88/potion-shop/internal/observability"
	"github.com/fmpberger88/potion-shop/internal/persistence"
	"github.com/fmpberger88/potion-shop/internal/repository"
	"github.com/fmpberger88/potion-shop/internal/service"
	"github.com/fmpberger88/potion-shop/internal/session"
	"github.com/fmpberger88/potion-shop/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	userRepo := repository.NewUserRepository(pool)
	productRepo := repository.NewProductRepository(pool)
	cartRepo := repository.NewCartRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)
	checkoutStore := repository.NewCheckoutStore(pool)

	sessionStore := session.NewRedisStore(redis.Client)
	sessions := session.NewManager(sessionStore, cfg.Session, cfg.App.IsProduction())
	countCache := cache.NewCartCountCache(redis.Client, cfg.Cache.CartCountTTL())

	dispatcher := events.NewInMemoryDispatcher()
	mailer := mail.NewSMTPMailer(cfg.Mail, logger)
	notificationService := service.NewNotificationService(dispatcher, mailer, logger, cfg.App, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	authService := service.NewAuthService(cfg.Auth, service.AuthDependencies{
		UserRepo:   userRepo,
		Dispatcher: dispatcher,
	})
	cartService := service.NewCartService(service.CartDependencies{
		CartRepo:    cartRepo,
		ProductRepo: productRepo,
		CountCache:  countCache,
	}, logger)
	orderService := service.NewOrderService(service.OrderDependencies{
		CheckoutStore: checkoutStore,
		OrderRepo:     orderRepo,
		UserRepo:      userRepo,
		CountCache:    countCache,
		Dispatcher:    dispatcher,
	}, logger)
	catalogService := service.NewCatalogService(productRepo)
	accountService := service.NewAccountService(userRepo, cfg.Auth.BcryptCost)

	authMiddleware := auth.NewMiddleware(sessions, userRepo)
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), !cfg.App.IsProduction())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService, sessions),
		Password:       handlers.NewPasswordHandler(authService),
		Cart:           handlers.NewCartHandler(cartService),
		Orders:         handlers.NewOrdersHandler(orderService),
		Products:       handlers.NewProductsHandler(catalogService),
		Account:        handlers.NewAccountHandler(accountService),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
