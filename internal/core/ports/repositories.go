package ports

import (
	"context"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// CourseRepository persists golf courses.
type CourseRepository interface {
	// FindInBounds returns every course with non-null coordinates inside box.
	// No ordering is guaranteed.
	FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Course, error)
	Search(ctx context.Context, query string, limit int) ([]domain.Course, error)
	List(ctx context.Context, offset, limit int) ([]domain.Course, int, error)
	ListWithCoordinates(ctx context.Context) ([]domain.Course, error)
	UpdateWeather(ctx context.Context, courseID string, w *domain.Weather) error
	UpsertBatch(ctx context.Context, courses []domain.Course) error
}
