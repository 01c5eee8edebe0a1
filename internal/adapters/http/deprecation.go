package http

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
)

// DeprecatedRoute describes a path kept alive for old clients.
type DeprecatedRoute struct {
	Path        string
	SunsetDate  time.Time
	Alternative string // successor path, optional
}

// Deprecated wraps h so its responses announce the route's retirement with
// Deprecation, Sunset, Link and Warning headers (RFC 8594, RFC 8288).
func Deprecated(route DeprecatedRoute, h fiber.Handler) fiber.Handler {
	sunset := route.SunsetDate.UTC().Format(time.RFC1123)
	return func(c *fiber.Ctx) error {
		c.Set("Deprecation", "true")
		c.Set("Sunset", sunset)
		if route.Alternative != "" {
			c.Set(fiber.HeaderLink, fmt.Sprintf(`<%s>; rel="successor-version"`, route.Alternative))
		}

		days := time.Until(route.SunsetDate).Hours() / 24
		if days < 0 {
			days = 0
		}
		c.Set("Warning", fmt.Sprintf(`299 - "Deprecated API, will sunset in %.0f days"`, days))

		return h(c)
	}
}
