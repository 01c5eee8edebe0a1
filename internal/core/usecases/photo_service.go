package usecases

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
	"github.com/golfkart/golfkart/internal/pkg/telemetry"
)

const (
	defaultMaxPhotos = 4
	photoCacheTTL    = 24 * 60 * 60
)

// PhotoService serves course photos from the billed places API behind a
// usage gate.
type PhotoService struct {
	courses   ports.CourseRepository
	provider  ports.PhotoProvider
	gate      ports.UsageGate
	cache     ports.CacheService
	maxPhotos int
}

// NewPhotoService creates a new PhotoService.
func NewPhotoService(courses ports.CourseRepository, provider ports.PhotoProvider, gate ports.UsageGate, cache ports.CacheService, maxPhotos int) *PhotoService {
	if maxPhotos <= 0 {
		maxPhotos = defaultMaxPhotos
	}
	return &PhotoService{courses: courses, provider: provider, gate: gate, cache: cache, maxPhotos: maxPhotos}
}

// CoursePhotos returns photos of the course identified by slug. Cached lists
// cost nothing. When the gate refuses or the provider fails the result is an
// empty list, not an error; only an unknown course is reported.
func (s *PhotoService) CoursePhotos(ctx context.Context, slug string) ([]domain.PlacePhoto, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanCoursePhotos)
	defer span.End()
	span.SetAttributes(attribute.String(telemetry.AttrCourseSlug, slug))

	course, err := s.courses.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if course.GooglePlaceID == "" {
		return []domain.PlacePhoto{}, nil
	}

	cacheKey := "photos:" + course.GooglePlaceID
	var cached []domain.PlacePhoto
	if cacheGet(ctx, s.cache, "photos", cacheKey, &cached) {
		metrics.PhotoGateDecisions.WithLabelValues("cached").Inc()
		return cached, nil
	}

	if !s.gate.CanProceed() {
		metrics.PhotoGateDecisions.WithLabelValues("denied").Inc()
		span.SetAttributes(attribute.Bool(telemetry.AttrQuotaAllowed, false))
		return []domain.PlacePhoto{}, nil
	}
	span.SetAttributes(attribute.Bool(telemetry.AttrQuotaAllowed, true))

	photos, err := s.provider.PlacePhotos(ctx, course.GooglePlaceID, s.maxPhotos)
	if err != nil {
		metrics.PhotoGateDecisions.WithLabelValues("failed").Inc()
		slog.WarnContext(ctx, "place photos failed", "slug", slug, "error", err)
		return []domain.PlacePhoto{}, nil
	}
	metrics.PhotoGateDecisions.WithLabelValues("allowed").Inc()

	// The details lookup is billed even when it yields no photos.
	s.gate.RecordUsage(max(1, len(photos)))

	if photos == nil {
		photos = []domain.PlacePhoto{}
	}
	cacheSet(ctx, s.cache, cacheKey, photos, photoCacheTTL)
	return photos, nil
}
