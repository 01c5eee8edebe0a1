package http

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
)

// nearbyCourse is one entry of the nearby response. id carries the slug.
type nearbyCourse struct {
	ID          string   `json:"id"`
	Slug        string   `json:"slug"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Region      string   `json:"region"`
	Holes       int      `json:"holes"`
	Par         *int     `json:"par"`
	Distance    float64  `json:"distance"`
	Rating      *float64 `json:"rating"`
	ReviewCount int      `json:"reviewCount"`
}

type nearbyResponse struct {
	Success      bool              `json:"success"`
	Count        int               `json:"count"`
	Courses      []nearbyCourse    `json:"courses"`
	UserLocation domain.Coordinate `json:"userLocation"`
	RadiusKm     int               `json:"radiusKm"`
}

func nearbyError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"success": false, "error": msg})
}

// NearbyCoursesHandler returns the closest courses around lat/lng.
// It answers in the {success, ...} envelope used by the site's map widget.
func NearbyCoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		latRaw, lngRaw := c.Query("lat"), c.Query("lng")
		if latRaw == "" || lngRaw == "" {
			return nearbyError(c, fiber.StatusBadRequest, "Missing required parameters: lat and lng")
		}

		lat, errLat := strconv.ParseFloat(latRaw, 64)
		lng, errLng := strconv.ParseFloat(lngRaw, 64)
		center := domain.Coordinate{Latitude: lat, Longitude: lng}
		if errLat != nil || errLng != nil || center.Validate() != nil {
			return nearbyError(c, fiber.StatusBadRequest, "Invalid coordinates")
		}

		limit, err := positiveIntQuery(c, "limit", usecases.DefaultLimit)
		if err != nil {
			return nearbyError(c, fiber.StatusBadRequest, "limit must be a positive integer")
		}
		radius, err := positiveIntQuery(c, "radius", usecases.DefaultRadiusKm)
		if err != nil {
			return nearbyError(c, fiber.StatusBadRequest, "radius must be a positive integer")
		}

		ranked, err := deps.Courses.FindNearby(c.UserContext(), center, float64(radius), limit)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCoordinate) {
				return nearbyError(c, fiber.StatusBadRequest, "Invalid coordinates")
			}
			slog.ErrorContext(c.UserContext(), "nearby search failed", "error", err)
			return nearbyError(c, fiber.StatusInternalServerError, "Failed to fetch nearby courses")
		}

		courses := make([]nearbyCourse, 0, len(ranked))
		for _, r := range ranked {
			courses = append(courses, nearbyCourse{
				ID:          r.Slug,
				Slug:        r.Slug,
				Name:        r.Name,
				City:        r.City,
				Region:      r.Region,
				Holes:       r.Holes,
				Par:         r.Par,
				Distance:    r.DistanceKm,
				Rating:      r.AverageRating,
				ReviewCount: r.TotalReviews,
			})
		}

		c.Set("Cache-Control", "private, max-age=60")
		return c.JSON(nearbyResponse{
			Success:      true,
			Count:        len(courses),
			Courses:      courses,
			UserLocation: center,
			RadiusKm:     radius,
		})
	}
}

// positiveIntQuery reads an optional positive integer parameter.
func positiveIntQuery(c *fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}

// courseSummary is the compact form used by search results.
type courseSummary struct {
	ID           string `json:"id"`
	Slug         string `json:"slug"`
	Name         string `json:"name"`
	City         string `json:"city"`
	Region       string `json:"region"`
	Municipality string `json:"municipality,omitempty"`
	Holes        int    `json:"holes"`
	Par          *int   `json:"par"`
	LengthMeters *int   `json:"lengthMeters,omitempty"`
}

func summarize(courses []domain.Course) []courseSummary {
	out := make([]courseSummary, 0, len(courses))
	for _, c := range courses {
		out = append(out, courseSummary{
			ID:           c.Slug,
			Slug:         c.Slug,
			Name:         c.Name,
			City:         c.City,
			Region:       c.Region,
			Municipality: c.Municipality,
			Holes:        c.Holes,
			Par:          c.Par,
			LengthMeters: c.LengthMeters,
		})
	}
	return out
}

// SearchCoursesHandler matches q against names and places. Without q it
// returns the first courses of the catalogue.
func SearchCoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if len(query) > 200 {
			return errBadRequest(c, "query too long (max 200 characters)")
		}

		courses, err := deps.Courses.Search(c.UserContext(), query, c.QueryInt("limit", 0))
		if err != nil {
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(summarize(courses))
	}
}

// ListCoursesHandler pages through the whole catalogue.
func ListCoursesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		offset := c.QueryInt("offset", 0)
		limit := c.QueryInt("limit", 20)
		if offset < 0 {
			offset = 0
		}
		if limit <= 0 || limit > 100 {
			limit = 20
		}

		courses, total, err := deps.Courses.List(c.UserContext(), offset, limit)
		if err != nil {
			return errFromDomain(c, err)
		}
		if courses == nil {
			courses = []domain.Course{}
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: courses, Pagination: pg})
	}
}

// GetCourseHandler returns a single course by slug.
func GetCourseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		course, err := deps.Courses.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "course not found")
			}
			return errFromDomain(c, err)
		}

		c.Set("Cache-Control", "public, max-age=600")
		return c.JSON(course)
	}
}

// CoursePhotosHandler returns place photos of a course. An exhausted photo
// quota yields an empty list, never an error.
func CoursePhotosHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		slug := c.Params("slug")
		photos, err := deps.Photos.CoursePhotos(c.UserContext(), slug)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return errNotFound(c, "course not found")
			}
			return errFromDomain(c, err)
		}
		if len(photos) == 0 {
			// Empty may mean the quota ran out; let the next visit retry.
			photos = []domain.PlacePhoto{}
			c.Set("Cache-Control", "no-store")
		} else {
			c.Set("Cache-Control", "public, max-age=3600")
		}

		return c.JSON(fiber.Map{
			"slug":   slug,
			"count":  len(photos),
			"photos": photos,
		})
	}
}
