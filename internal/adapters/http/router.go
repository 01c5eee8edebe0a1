package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/golfkart/golfkart/internal/pkg/metrics"
)

// LegacyNearby is the path the site's map widget still calls.
var LegacyNearby = DeprecatedRoute{
	Path:        "/api/courses/nearby",
	SunsetDate:  time.Date(2027, time.June, 30, 0, 0, 0, 0, time.UTC),
	Alternative: "/v1/courses/nearby",
}

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// 120 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	withTimeout := func(h fiber.Handler) fiber.Handler {
		return timeout.NewWithContext(h, deps.requestTimeout())
	}

	v1 := app.Group("/v1")
	v1.Get("/courses", withTimeout(SearchCoursesHandler(deps)))
	v1.Get("/courses/nearby", withTimeout(NearbyCoursesHandler(deps)))
	v1.Get("/courses/all", withTimeout(ListCoursesHandler(deps)))
	v1.Get("/courses/:slug", withTimeout(GetCourseHandler(deps)))
	v1.Get("/courses/:slug/photos", withTimeout(CoursePhotosHandler(deps)))
	v1.Get("/weather", withTimeout(WeatherHandler(deps)))
	v1.Get("/rate-limit", RateLimitStatusHandler(deps))
	v1.Post("/contact", withTimeout(ContactHandler(deps)))
	v1.Post("/reviews", withTimeout(ReviewHandler(deps)))

	// A full refresh outlives the request timeout.
	refresh := RefreshWeatherHandler(deps)
	v1.Get("/cron/update-weather", refresh)
	v1.Post("/cron/update-weather", refresh)

	app.Get(LegacyNearby.Path, Deprecated(LegacyNearby, withTimeout(NearbyCoursesHandler(deps))))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app)

	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
