package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/pkg/geospatial"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
	"github.com/golfkart/golfkart/internal/pkg/telemetry"
)

const (
	DefaultRadiusKm = 50
	DefaultLimit    = 3

	defaultStoreTimeout = 5 * time.Second

	searchDefaultLimit = 10
	searchMaxLimit     = 15
	listDefaultLimit   = 20
	listMaxLimit       = 100
)

// CourseService handles course lookup and proximity search.
type CourseService struct {
	courses      ports.CourseRepository
	cache        ports.CacheService
	storeTimeout time.Duration
}

// NewCourseService creates a new CourseService. A non-positive storeTimeout
// falls back to five seconds.
func NewCourseService(courses ports.CourseRepository, cache ports.CacheService, storeTimeout time.Duration) *CourseService {
	if storeTimeout <= 0 {
		storeTimeout = defaultStoreTimeout
	}
	return &CourseService{courses: courses, cache: cache, storeTimeout: storeTimeout}
}

// FindNearby returns up to limit courses within radiusKm of center, closest
// first. Distances are great-circle kilometers rounded to one decimal.
// Non-positive radiusKm or limit select the defaults.
func (s *CourseService) FindNearby(ctx context.Context, center domain.Coordinate, radiusKm float64, limit int) ([]domain.RankedCourse, error) {
	if err := center.Validate(); err != nil {
		return nil, err
	}
	if radiusKm <= 0 {
		radiusKm = DefaultRadiusKm
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanFindNearby)
	defer span.End()
	span.SetAttributes(
		attribute.Float64(telemetry.AttrLatitude, center.Latitude),
		attribute.Float64(telemetry.AttrLongitude, center.Longitude),
		attribute.Float64(telemetry.AttrRadiusKm, radiusKm),
		attribute.Int(telemetry.AttrLimit, limit),
	)

	minLat, minLng, maxLat, maxLng := geospatial.BoundingBox(center.Latitude, center.Longitude, radiusKm)
	box := domain.BoundingBox{MinLat: minLat, MaxLat: maxLat, MinLng: minLng, MaxLng: maxLng}

	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	candidates, err := s.courses.FindInBounds(storeCtx, box)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "course store query failed")
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	metrics.NearbyCandidates.Observe(float64(len(candidates)))

	ranked := make([]domain.RankedCourse, 0, len(candidates))
	for _, c := range candidates {
		if c.Coordinates == nil {
			continue
		}
		distance := geospatial.DistanceKm(center.Latitude, center.Longitude, c.Coordinates.Latitude, c.Coordinates.Longitude)
		if distance > radiusKm {
			continue
		}
		avg, total := domain.AverageRating(c.Ratings)
		ranked = append(ranked, domain.RankedCourse{
			ID:            c.ID,
			Slug:          c.Slug,
			Name:          c.Name,
			City:          c.City,
			Region:        c.Region,
			Holes:         c.Holes,
			Par:           c.Par,
			Coordinates:   *c.Coordinates,
			DistanceKm:    distance,
			AverageRating: avg,
			TotalReviews:  total,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].DistanceKm < ranked[j].DistanceKm
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	span.SetAttributes(
		attribute.Int(telemetry.AttrCandidates, len(candidates)),
		attribute.Int(telemetry.AttrResults, len(ranked)),
	)
	metrics.NearbyResults.Observe(float64(len(ranked)))

	return ranked, nil
}

// Search matches query against name, city, region, municipality and former
// name. An empty query lists the first courses instead.
func (s *CourseService) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	query = strings.TrimSpace(query)
	if limit <= 0 {
		limit = searchDefaultLimit
	}
	if limit > searchMaxLimit {
		limit = searchMaxLimit
	}

	if query == "" {
		courses, _, err := s.courses.List(ctx, 0, limit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
		}
		return courses, nil
	}

	cacheKey := fmt.Sprintf("courses:search:%s:%d", strings.ToLower(query), limit)
	var cached []domain.Course
	if s.cacheGet(ctx, "course_search", cacheKey, &cached) {
		return cached, nil
	}

	courses, err := s.courses.Search(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.cacheSet(ctx, cacheKey, courses, 300)
	return courses, nil
}

// GetBySlug returns a single course.
func (s *CourseService) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	cacheKey := "courses:slug:" + slug
	var cached domain.Course
	if s.cacheGet(ctx, "course_slug", cacheKey, &cached) {
		return &cached, nil
	}

	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}

	s.cacheSet(ctx, cacheKey, course, 600)
	return course, nil
}

// List returns one page of courses ordered by name and the total count.
func (s *CourseService) List(ctx context.Context, offset, limit int) ([]domain.Course, int, error) {
	if offset < 0 {
		offset = 0
	}
	if limit <= 0 {
		limit = listDefaultLimit
	}
	if limit > listMaxLimit {
		limit = listMaxLimit
	}

	courses, total, err := s.courses.List(ctx, offset, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return courses, total, nil
}

func (s *CourseService) cacheGet(ctx context.Context, op, key string, dst any) bool {
	return cacheGet(ctx, s.cache, op, key, dst)
}

func (s *CourseService) cacheSet(ctx context.Context, key string, v any, ttlSeconds int) {
	cacheSet(ctx, s.cache, key, v, ttlSeconds)
}

// cacheGet decodes key into dst. Misses and decode failures both report false.
func cacheGet(ctx context.Context, cache ports.CacheService, op, key string, dst any) bool {
	if cache == nil {
		return false
	}
	data, err := cache.Get(ctx, key)
	if err != nil {
		metrics.CacheLookup(op, false)
		return false
	}
	if err := json.Unmarshal(data, dst); err != nil {
		metrics.CacheLookup(op, false)
		return false
	}
	metrics.CacheLookup(op, true)
	return true
}

func cacheSet(ctx context.Context, cache ports.CacheService, key string, v any, ttlSeconds int) {
	if cache == nil {
		return
	}
	if data, err := json.Marshal(v); err == nil {
		_ = cache.Set(ctx, key, data, ttlSeconds)
	}
}
