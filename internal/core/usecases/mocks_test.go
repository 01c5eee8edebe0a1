package usecases_test

import (
	"context"
	"errors"
	"sync"

	"github.com/golfkart/golfkart/internal/core/domain"
)

// --- Mock CourseRepository ---

type mockCourseRepo struct {
	findInBoundsFn        func(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error)
	getBySlugFn           func(ctx context.Context, slug string) (*domain.Course, error)
	searchFn              func(ctx context.Context, query string, limit int) ([]domain.Course, error)
	listFn                func(ctx context.Context, offset, limit int) ([]domain.Course, int, error)
	listWithCoordinatesFn func(ctx context.Context) ([]domain.Course, error)
	updateWeatherFn       func(ctx context.Context, courseID string, w *domain.Weather) error

	findInBoundsCalls int
}

func (m *mockCourseRepo) FindInBounds(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error) {
	m.findInBoundsCalls++
	if m.findInBoundsFn != nil {
		return m.findInBoundsFn(ctx, box)
	}
	return nil, nil
}

func (m *mockCourseRepo) GetBySlug(ctx context.Context, slug string) (*domain.Course, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, domain.ErrNotFound
}

func (m *mockCourseRepo) Search(ctx context.Context, query string, limit int) ([]domain.Course, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, query, limit)
	}
	return nil, nil
}

func (m *mockCourseRepo) List(ctx context.Context, offset, limit int) ([]domain.Course, int, error) {
	if m.listFn != nil {
		return m.listFn(ctx, offset, limit)
	}
	return nil, 0, nil
}

func (m *mockCourseRepo) ListWithCoordinates(ctx context.Context) ([]domain.Course, error) {
	if m.listWithCoordinatesFn != nil {
		return m.listWithCoordinatesFn(ctx)
	}
	return nil, nil
}

func (m *mockCourseRepo) UpdateWeather(ctx context.Context, courseID string, w *domain.Weather) error {
	if m.updateWeatherFn != nil {
		return m.updateWeatherFn(ctx, courseID, w)
	}
	return nil
}

func (m *mockCourseRepo) UpsertBatch(ctx context.Context, courses []domain.Course) error { return nil }

// boundedStore answers FindInBounds the way a database would: only courses
// inside the box.
func boundedStore(courses ...domain.Course) func(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error) {
	return func(ctx context.Context, box domain.BoundingBox) ([]domain.Course, error) {
		var out []domain.Course
		for _, c := range courses {
			if c.Coordinates != nil && box.Contains(*c.Coordinates) {
				out = append(out, c)
			}
		}
		return out, nil
	}
}

// --- Mock CacheService ---

var errCacheMiss = errors.New("cache miss")

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	ttls map[string]int
}

func newMemCache() *memCache {
	return &memCache{data: map[string][]byte{}, ttls: map[string]int{}}
}

func (c *memCache) Get(ctx context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	if !ok {
		return nil, errCacheMiss
	}
	return v, nil
}

func (c *memCache) Set(ctx context.Context, key string, value []byte, ttlSeconds int) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = value
	c.ttls[key] = ttlSeconds
	return nil
}

func (c *memCache) Delete(ctx context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu          sync.Mutex
	weather     map[string]*domain.Weather
	submissions []*domain.Submission
	err         error
}

func (p *mockPublisher) PublishWeatherUpdated(ctx context.Context, slug string, w *domain.Weather) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	if p.weather == nil {
		p.weather = map[string]*domain.Weather{}
	}
	p.weather[slug] = w
	return nil
}

func (p *mockPublisher) PublishSubmission(ctx context.Context, s *domain.Submission) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.submissions = append(p.submissions, s)
	return nil
}

func coord(lat, lng float64) *domain.Coordinate {
	return &domain.Coordinate{Latitude: lat, Longitude: lng}
}

func ptrF(v float64) *float64 { return &v }
func ptrI(v int) *int         { return &v }
