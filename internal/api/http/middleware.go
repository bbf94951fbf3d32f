package http

import (
	"context"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/recupera/collections-service/internal/observability"
	apperrors "github.com/recupera/collections-service/pkg/util/errorutil"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
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

func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := apperrors.ToDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				response := fiber.Map{"error": fiber.Map{
					"code":    domainErr.Code,
					"message": domainErr.Message,
				}}
				if len(domainErr.Details) > 0 {
					response["error"].(fiber.Map)["details"] = domainErr.Details
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// LoginRateLimit throttles credential guessing with a fixed window counter
// in redis keyed by target email plus client IP, so hammering one account
// from one address cannot exhaust the budget of other callers. Redis being
// down never blocks logins.
func LoginRateLimit(rdb *redis.Client, limit int, window time.Duration) fiber.Handler {
	if rdb == nil || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		var body struct {
			Email string `json:"email"`
		}
		_ = c.BodyParser(&body)
		key := loginRateKey(body.Email, c.IP())
		count, err := rdb.Incr(c.UserContext(), key).Result()
		if err != nil {
			return c.Next()
		}
		if count == 1 {
			rdb.Expire(c.UserContext(), key, window)
		}
		if count > int64(limit) {
			return apperrors.NewDomainError("RATE_LIMITED", "too many login attempts; try again later", fiber.StatusTooManyRequests, nil)
		}
		return c.Next()
	}
}

func loginRateKey(email, ip string) string {
	return fmt.Sprintf("ratelimit:login:%s:%s",
		strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(ip))
}
