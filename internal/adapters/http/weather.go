package http

import (
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/golfkart/golfkart/internal/core/domain"
)

type weatherResponse struct {
	Temp              float64 `json:"temp"`
	FeelsLike         float64 `json:"feelsLike"`
	Condition         string  `json:"condition"`
	ConditionOriginal string  `json:"conditionOriginal"`
	Icon              string  `json:"icon"`
	Emoji             string  `json:"emoji"`
	WindSpeed         float64 `json:"windSpeed"`
	WindDirection     float64 `json:"windDirection"`
	WindCardinal      string  `json:"windCardinal"`
	Humidity          float64 `json:"humidity"`
	PrecipChance      float64 `json:"precipChance"`
	UVIndex           float64 `json:"uvIndex"`
	Visibility        float64 `json:"visibility"`
	UpdatedAt         string  `json:"updatedAt"`
}

func newWeatherResponse(w *domain.Weather) weatherResponse {
	return weatherResponse{
		Temp:              w.Temperature,
		FeelsLike:         w.FeelsLike,
		Condition:         domain.TranslateCondition(w.Condition),
		ConditionOriginal: w.Condition,
		Icon:              w.Icon,
		Emoji:             domain.ConditionEmoji(w.Condition),
		WindSpeed:         w.WindSpeed,
		WindDirection:     w.WindDirection,
		WindCardinal:      domain.WindCardinal(w.WindDirection),
		Humidity:          w.Humidity,
		PrecipChance:      w.PrecipitationChance,
		UVIndex:           w.UVIndex,
		Visibility:        w.Visibility,
		UpdatedAt:         w.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// WeatherHandler returns current conditions at lat/lng with the condition
// translated to Norwegian.
func WeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latRaw, lngRaw := c.Query("lat"), c.Query("lng")
		if latRaw == "" || lngRaw == "" {
			return errBadRequest(c, "Missing required parameters: lat and lng")
		}
		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		if errLat != nil || errLng != nil {
			return errBadRequest(c, "Invalid coordinates")
		}

		w, err := deps.Weather.Current(c.UserContext(), domain.Coordinate{Latitude: lat, Longitude: lng})
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(newWeatherResponse(w))
	}
}

// RefreshWeatherHandler runs a full weather refresh. When a cron secret is
// configured the caller must send it as a bearer token.
func RefreshWeatherHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if deps.CronSecret != "" {
			want := "Bearer " + deps.CronSecret
			if subtle.ConstantTimeCompare([]byte(c.Get(fiber.HeaderAuthorization)), []byte(want)) != 1 {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"success": false, "error": "Unauthorized"})
			}
		}

		summary, err := deps.Weather.RefreshAll(c.UserContext())
		if err != nil {
			slog.ErrorContext(c.UserContext(), "weather refresh failed", "error", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"success": false,
				"error":   "Internal server error",
				"message": err.Error(),
			})
		}

		c.Set("Cache-Control", "no-store")
		return c.JSON(fiber.Map{
			"success":      true,
			"totalCourses": summary.TotalCourses,
			"successCount": summary.SuccessCount,
			"errorCount":   summary.ErrorCount,
			"duration":     fmt.Sprintf("%.2fs", summary.Duration.Seconds()),
			"timestamp":    summary.StartedAt.UTC().Format(time.RFC3339),
			"errors":       summary.Errors,
		})
	}
}
