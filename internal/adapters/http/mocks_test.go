package http_test

import (
	"context"
	"errors"
	"sync"

	"github.com/golfkart/golfkart/internal/core/domain"
)

type mockCourseRepo struct {
	courses     []domain.Course
	findErr     error
	findCalls   int
	updatedIDs  []string
	searchQuery string
}

func (m *mockCourseRepo) FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error) {
	m.findCalls++
	if m.findErr != nil {
		return nil, m.findErr
	}
	var out []domain.Course
	for _, c := range m.courses {
		if c.Coordinates != nil && box.Contains(*c.Coordinates) {
			out = append(out, c)
		}
	}
	return out, nil
}

func (m *mockCourseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	for _, c := range m.courses {
		if c.Slug == slug {
			c := c
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockCourseRepo) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	m.searchQuery = query
	if len(m.courses) > limit {
		return m.courses[:limit], nil
	}
	return m.courses, nil
}

func (m *mockCourseRepo) List(ctx context.Context, offset, limit int) ([]domain.Course, int, error) {
	total := len(m.courses)
	if offset >= total {
		return nil, total, nil
	}
	end := min(offset+limit, total)
	return m.courses[offset:end], total, nil
}

func (m *mockCourseRepo) ListWithCoordinates(ctx context.Context) ([]domain.Course, error) {
	return m.courses, nil
}

func (m *mockCourseRepo) UpdateWeather(ctx context.Context, courseID string, w *domain.Weather) error {
	m.updatedIDs = append(m.updatedIDs, courseID)
	return nil
}

func (m *mockCourseRepo) UpsertBatch(ctx context.Context, courses []domain.Course) error { return nil }

type stubWeather struct {
	weather *domain.Weather
	err     error
}

func (s *stubWeather) Current(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.weather, nil
}

type stubPhotos struct {
	photos []domain.PlacePhoto
	calls  int
}

func (s *stubPhotos) PlacePhotos(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
	s.calls++
	if s.photos == nil {
		return nil, errors.New("places unavailable")
	}
	return s.photos, nil
}

type recordingPublisher struct {
	mu          sync.Mutex
	submissions []*domain.Submission
}

func (p *recordingPublisher) PublishWeatherUpdated(ctx context.Context, slug string, w *domain.Weather) error {
	return nil
}

func (p *recordingPublisher) PublishSubmission(ctx context.Context, s *domain.Submission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.submissions = append(p.submissions, s)
	return nil
}

type pingerFunc func(ctx context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func coord(lat, lng float64) *domain.Coordinate {
	return &domain.Coordinate{Latitude: lat, Longitude: lng}
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
