package http

import (
	"crypto/subtle"
	"fmt"
	"math"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/golfkart/golfkart/internal/pkg/ratelimit"
)

// Places photo pricing used for the cost estimate.
const (
	photoCostPerThousandUSD = 7.0
	monthlyBudgetUSD        = 200.0
)

func costUSD(calls int) float64 {
	return float64(calls) * photoCostPerThousandUSD / 1000
}

func usd(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func roundIn(d, unit time.Duration) int64 {
	return int64(math.Round(float64(d) / float64(unit)))
}

func windowReport(w ratelimit.WindowStatus, key string, unit time.Duration) fiber.Map {
	return fiber.Map{
		"used":      w.Used,
		"limit":     w.Limit,
		"remaining": w.Remaining(),
		key:         roundIn(w.ResetsIn, unit),
	}
}

// quotaSecretMatches reports whether given unlocks the quota report.
// An unconfigured secret keeps it locked.
func quotaSecretMatches(deps *Dependencies, given string) bool {
	return deps.RateLimitSecret != "" &&
		subtle.ConstantTimeCompare([]byte(given), []byte(deps.RateLimitSecret)) == 1
}

// RateLimitStatusHandler reports photo quota usage. The secret query
// parameter must match the configured status secret.
func RateLimitStatusHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !quotaSecretMatches(deps, c.Query("secret")) {
			return errUnauthorized(c, "Unauthorized")
		}
		if deps.PhotoQuota == nil {
			return errInternal(c, "photo quota not configured")
		}

		st := deps.PhotoQuota.Status()

		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"status": "ok",
			"rateLimits": fiber.Map{
				"hourly":  windowReport(st.Hourly, "resetsInMinutes", time.Minute),
				"daily":   windowReport(st.Daily, "resetsInHours", time.Hour),
				"monthly": windowReport(st.Monthly, "resetsInDays", ratelimit.Day),
			},
			"estimatedCost": fiber.Map{
				"hourlyUSD":              usd(costUSD(st.Hourly.Used)),
				"dailyUSD":               usd(costUSD(st.Daily.Used)),
				"monthlyUSD":             usd(costUSD(st.Monthly.Used)),
				"monthlyBudgetRemaining": usd(monthlyBudgetUSD - costUSD(st.Monthly.Used)),
			},
		})
	}
}
