package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
	"github.com/golfkart/golfkart/internal/pkg/telemetry"
)

const (
	// RefreshPause spaces consecutive provider calls during a full refresh.
	RefreshPause = 50 * time.Millisecond

	weatherCacheTTL   = 600
	maxReportedErrors = 10
)

// RefreshSummary reports a full weather refresh run.
type RefreshSummary struct {
	TotalCourses int           `json:"totalCourses"`
	SuccessCount int           `json:"successCount"`
	ErrorCount   int           `json:"errorCount"`
	Duration     time.Duration `json:"-"`
	Errors       []string      `json:"errors"`
	StartedAt    time.Time     `json:"timestamp"`
}

// AddError counts a failed course and keeps the first few messages.
func (s *RefreshSummary) AddError(msg string) {
	s.ErrorCount++
	if len(s.Errors) < maxReportedErrors {
		s.Errors = append(s.Errors, msg)
	}
}

// AddSkipped counts n courses that were never attempted under a single message.
func (s *RefreshSummary) AddSkipped(n int, msg string) {
	if n <= 0 {
		return
	}
	s.ErrorCount += n - 1
	s.AddError(msg)
}

// WeatherService looks up current conditions and keeps the stored snapshots
// of every course fresh.
type WeatherService struct {
	courses   ports.CourseRepository
	provider  ports.WeatherProvider
	publisher ports.EventPublisher
	cache     ports.CacheService
	pause     time.Duration
}

// NewWeatherService creates a new WeatherService. publisher and cache may be nil.
func NewWeatherService(courses ports.CourseRepository, provider ports.WeatherProvider, publisher ports.EventPublisher, cache ports.CacheService) *WeatherService {
	return &WeatherService{
		courses:   courses,
		provider:  provider,
		publisher: publisher,
		cache:     cache,
		pause:     RefreshPause,
	}
}

// WithPause overrides the delay between courses in RefreshAll.
func (s *WeatherService) WithPause(d time.Duration) *WeatherService {
	s.pause = d
	return s
}

// Current returns the current conditions at a coordinate.
func (s *WeatherService) Current(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
	if err := at.Validate(); err != nil {
		return nil, err
	}

	cacheKey := fmt.Sprintf("weather:%.2f:%.2f", at.Latitude, at.Longitude)
	var cached domain.Weather
	if cacheGet(ctx, s.cache, "weather", cacheKey, &cached) {
		return &cached, nil
	}

	w, err := s.provider.Current(ctx, at)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	cacheSet(ctx, s.cache, cacheKey, w, weatherCacheTTL)
	return w, nil
}

// Targets returns every course that can have weather.
func (s *WeatherService) Targets(ctx context.Context) ([]domain.Course, error) {
	courses, err := s.courses.ListWithCoordinates(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)
	}
	return courses, nil
}

// RefreshCourse fetches, stores and announces the weather of one course.
func (s *WeatherService) RefreshCourse(ctx context.Context, course domain.Course) (*domain.Weather, error) {
	if course.Coordinates == nil {
		return nil, fmt.Errorf("course %s has no coordinates", course.Slug)
	}

	w, err := s.provider.Current(ctx, *course.Coordinates)
	if err != nil {
		metrics.WeatherRefreshTotal.WithLabelValues("provider_error").Inc()
		return nil, fmt.Errorf("fetch weather for %s: %w", course.Name, err)
	}

	if err := s.courses.UpdateWeather(ctx, course.ID, w); err != nil {
		metrics.WeatherRefreshTotal.WithLabelValues("store_error").Inc()
		return nil, fmt.Errorf("store weather for %s: %w", course.Name, err)
	}
	metrics.WeatherRefreshTotal.WithLabelValues("ok").Inc()

	if s.cache != nil {
		_ = s.cache.Delete(ctx, "courses:slug:"+course.Slug)
	}
	if s.publisher != nil {
		if err := s.publisher.PublishWeatherUpdated(ctx, course.Slug, w); err != nil {
			slog.WarnContext(ctx, "publish weather update", "slug", course.Slug, "error", err)
		}
	}
	return w, nil
}

// RefreshAll refreshes every course one at a time. Per-course failures are
// counted in the summary; only failing to list the courses is an error.
func (s *WeatherService) RefreshAll(ctx context.Context) (*RefreshSummary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanWeatherRefresh)
	defer span.End()

	start := time.Now()
	summary := &RefreshSummary{StartedAt: start, Errors: []string{}}

	courses, err := s.Targets(ctx)
	if err != nil {
		return nil, err
	}
	summary.TotalCourses = len(courses)
	slog.InfoContext(ctx, "weather refresh started", "courses", len(courses))

	for i, course := range courses {
		if err := ctx.Err(); err != nil {
			left := len(courses) - i
			summary.AddSkipped(left, fmt.Sprintf("refresh cancelled with %d courses left: %v", left, err))
			slog.WarnContext(ctx, "weather refresh cancelled", "done", i, "left", left)
			break
		}

		w, err := s.RefreshCourse(ctx, course)
		if err != nil {
			summary.AddError(err.Error())
			slog.WarnContext(ctx, "weather refresh failed", "slug", course.Slug, "error", err)
		} else {
			summary.SuccessCount++
			slog.DebugContext(ctx, "weather refreshed", "slug", course.Slug, "temperature", w.Temperature, "condition", w.Condition)
		}

		if i < len(courses)-1 && s.pause > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(s.pause):
			}
		}
	}

	summary.Duration = time.Since(start)
	metrics.WeatherRefreshDuration.Observe(summary.Duration.Seconds())
	span.SetAttributes(
		attribute.Int(telemetry.AttrCandidates, summary.TotalCourses),
		attribute.Int(telemetry.AttrResults, summary.SuccessCount),
	)
	slog.InfoContext(ctx, "weather refresh completed",
		"total", summary.TotalCourses,
		"success", summary.SuccessCount,
		"errors", summary.ErrorCount,
		"duration", summary.Duration.String(),
	)
	return summary, nil
}
