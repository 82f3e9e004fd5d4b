package http

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/fmpberger88/potion-shop/internal/observability"
	apperrors "github.com/fmpberger88/potion-shop/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration, development bool) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics, development))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics, development bool) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				var fiberErr *fiber.Error
				if e, ok := err.(*fiber.Error); ok {
					fiberErr = e
				}

				var code string
				var message string
				var status int
				var details map[string]any

				if fiberErr != nil {
					code = "BAD_REQUEST"
					message = fiberErr.Message
					status = fiberErr.Code
				} else {
					domainErr := apperrors.ToDomainError(err)
					code = domainErr.Code
					message = domainErr.Message
					status = domainErr.HTTPStatus
					details = domainErr.Details
					if status >= 500 {
						logger.Error("request failed", zap.Error(domainErr))
						// Internal detail is only exposed in development.
						if development && domainErr.Err != nil {
							details = map[string]any{"detail": domainErr.Err.Error()}
						}
					}
				}

				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), code)
				}

				errBody := fiber.Map{
					"code":    code,
					"message": message,
				}
				if len(details) > 0 {
					errBody["details"] = details
				}
				c.Status(status)
				_ = c.JSON(fiber.Map{"error": errBody})
				err = nil
			}
		}()
		return c.Next()
	}
}
