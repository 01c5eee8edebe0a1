package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/golfkart/golfkart/internal/pkg/logging"
)

// RequestIDLogMiddleware copies the Fiber request ID into the request's user
// context so every slog call made with that context is tagged with it.
func RequestIDLogMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if rid, ok := c.Locals("requestid").(string); ok && rid != "" {
			c.SetUserContext(logging.WithRequestID(c.UserContext(), rid))
		}
		return c.Next()
	}
}
