package ports

import (
	"context"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// EventPublisher publishes domain events to a message broker.
type EventPublisher interface {
	PublishWeatherUpdated(ctx context.Context, slug string, w *domain.Weather) error
	PublishSubmission(ctx context.Context, s *domain.Submission) error
}

// EventSubscriber subscribes to domain events from a message broker.
type EventSubscriber interface {
	SubscribeSubmissions(ctx context.Context, handler func(ctx context.Context, s *domain.Submission) error) error
}

// CacheService provides read-through caching.
type CacheService interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttlSeconds int) error
	Delete(ctx context.Context, key string) error
}

// WeatherProvider looks up current conditions for a single coordinate.
type WeatherProvider interface {
	Current(ctx context.Context, at domain.Coordinate) (*domain.Weather, error)
}

// PhotoProvider fetches photo references for a place. Every call is billed.
type PhotoProvider interface {
	PlacePhotos(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error)
}

// UsageGate guards a billed API. CanProceed never consumes quota;
// RecordUsage is called only after a successful call.
type UsageGate interface {
	CanProceed() bool
	RecordUsage(n int)
}

// EmailSender delivers a single email.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, plainTextContent, htmlContent string) error
}

// SubmissionNotifier tells the site administrator about a submission.
type SubmissionNotifier interface {
	NotifySubmission(ctx context.Context, s *domain.Submission) error
}
