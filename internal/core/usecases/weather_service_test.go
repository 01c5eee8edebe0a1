package usecases_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
)

// --- Mock WeatherProvider ---

type mockWeatherProvider struct {
	currentFn func(ctx context.Context, at domain.Coordinate) (*domain.Weather, error)
	calls     int
}

func (m *mockWeatherProvider) Current(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
	m.calls++
	if m.currentFn != nil {
		return m.currentFn(ctx, at)
	}
	return &domain.Weather{Temperature: 12, Condition: "Partly cloudy"}, nil
}

func TestWeatherService_Current_Caches(t *testing.T) {
	provider := &mockWeatherProvider{}
	svc := usecases.NewWeatherService(&mockCourseRepo{}, provider, nil, newMemCache())

	for i := 0; i < 2; i++ {
		w, err := svc.Current(context.Background(), domain.Coordinate{Latitude: 59.95, Longitude: 10.65})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if w.Temperature != 12 {
			t.Errorf("expected 12, got %f", w.Temperature)
		}
	}
	if provider.calls != 1 {
		t.Errorf("expected one provider call, got %d", provider.calls)
	}
}

func TestWeatherService_Current_Errors(t *testing.T) {
	provider := &mockWeatherProvider{currentFn: func(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
		return nil, errors.New("quota exceeded")
	}}
	svc := usecases.NewWeatherService(&mockCourseRepo{}, provider, nil, nil)

	_, err := svc.Current(context.Background(), domain.Coordinate{Latitude: 91, Longitude: 0})
	if !errors.Is(err, domain.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("expected no provider call for invalid input")
	}

	_, err = svc.Current(context.Background(), domain.Coordinate{Latitude: 60, Longitude: 10})
	if !errors.Is(err, domain.ErrProviderUnavailable) {
		t.Errorf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestWeatherService_RefreshAll(t *testing.T) {
	stored := map[string]*domain.Weather{}
	repo := &mockCourseRepo{
		listWithCoordinatesFn: func(ctx context.Context) ([]domain.Course, error) {
			return []domain.Course{osloGK, losby, bergen}, nil
		},
		updateWeatherFn: func(ctx context.Context, courseID string, w *domain.Weather) error {
			stored[courseID] = w
			return nil
		},
	}
	provider := &mockWeatherProvider{currentFn: func(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
		if at.Longitude < 6 {
			return nil, errors.New("upstream 500")
		}
		return &domain.Weather{Temperature: at.Longitude, Condition: "Clear"}, nil
	}}
	pub := &mockPublisher{}
	svc := usecases.NewWeatherService(repo, provider, pub, nil).WithPause(0)

	summary, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.TotalCourses != 3 || summary.SuccessCount != 2 || summary.ErrorCount != 1 {
		t.Errorf("unexpected summary %+v", summary)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("expected 1 error message, got %v", summary.Errors)
	}
	if len(stored) != 2 || stored["1"] == nil || stored["2"] == nil {
		t.Errorf("expected weather stored for Oslo and Losby, got %v", stored)
	}
	if pub.weather["oslo-golfklubb"] == nil || pub.weather["bergen-golfklubb"] != nil {
		t.Errorf("expected events only for refreshed courses, got %v", pub.weather)
	}
}

func TestWeatherService_RefreshAll_CapsErrorList(t *testing.T) {
	var courses []domain.Course
	for i := 0; i < 15; i++ {
		courses = append(courses, domain.Course{ID: fmt.Sprint(i), Slug: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Course %d", i), Coordinates: coord(60, 10)})
	}
	repo := &mockCourseRepo{
		listWithCoordinatesFn: func(ctx context.Context) ([]domain.Course, error) { return courses, nil },
		updateWeatherFn: func(ctx context.Context, courseID string, w *domain.Weather) error {
			return errors.New("disk full")
		},
	}
	svc := usecases.NewWeatherService(repo, &mockWeatherProvider{}, nil, nil).WithPause(0)

	summary, err := svc.RefreshAll(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ErrorCount != 15 {
		t.Errorf("expected 15 errors, got %d", summary.ErrorCount)
	}
	if len(summary.Errors) != 10 {
		t.Errorf("expected 10 reported errors, got %d", len(summary.Errors))
	}
}

func TestWeatherService_RefreshAll_CancelledCountsRemaining(t *testing.T) {
	repo := &mockCourseRepo{
		listWithCoordinatesFn: func(ctx context.Context) ([]domain.Course, error) {
			return []domain.Course{osloGK, losby, bergen}, nil
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider := &mockWeatherProvider{currentFn: func(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
		cancel()
		return &domain.Weather{Temperature: 9, Condition: "Rain"}, nil
	}}
	svc := usecases.NewWeatherService(repo, provider, nil, nil).WithPause(0)

	summary, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("expected 1 provider call, got %d", provider.calls)
	}
	if summary.SuccessCount != 1 || summary.ErrorCount != 2 {
		t.Errorf("expected 1 success and 2 errors, got %+v", summary)
	}
	if summary.SuccessCount+summary.ErrorCount != summary.TotalCourses {
		t.Errorf("counts do not add up to total: %+v", summary)
	}
	if len(summary.Errors) != 1 {
		t.Errorf("expected one cancellation message, got %v", summary.Errors)
	}
}

func TestWeatherService_RefreshAll_CancelledKeepsErrorCap(t *testing.T) {
	var courses []domain.Course
	for i := 0; i < 15; i++ {
		courses = append(courses, domain.Course{ID: fmt.Sprint(i), Slug: fmt.Sprintf("c%d", i), Name: fmt.Sprintf("Course %d", i), Coordinates: coord(60, 10)})
	}
	repo := &mockCourseRepo{
		listWithCoordinatesFn: func(ctx context.Context) ([]domain.Course, error) { return courses, nil },
		updateWeatherFn: func(ctx context.Context, courseID string, w *domain.Weather) error {
			return errors.New("disk full")
		},
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	provider := &mockWeatherProvider{}
	provider.currentFn = func(ctx context.Context, at domain.Coordinate) (*domain.Weather, error) {
		if provider.calls == 12 {
			cancel()
		}
		return &domain.Weather{Temperature: 9}, nil
	}
	svc := usecases.NewWeatherService(repo, provider, nil, nil).WithPause(0)

	summary, err := svc.RefreshAll(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.ErrorCount != 15 || summary.SuccessCount != 0 {
		t.Errorf("expected 15 errors, got %+v", summary)
	}
	if len(summary.Errors) != 10 {
		t.Errorf("expected 10 reported errors, got %d", len(summary.Errors))
	}
}

func TestWeatherService_RefreshAll_StoreDown(t *testing.T) {
	repo := &mockCourseRepo{
		listWithCoordinatesFn: func(ctx context.Context) ([]domain.Course, error) {
			return nil, errors.New("connection reset")
		},
	}
	svc := usecases.NewWeatherService(repo, &mockWeatherProvider{}, nil, nil)

	_, err := svc.RefreshAll(context.Background())
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestWeatherService_RefreshCourse_InvalidatesCourseCache(t *testing.T) {
	cache := newMemCache()
	_ = cache.Set(context.Background(), "courses:slug:oslo-golfklubb", []byte(`{}`), 600)
	svc := usecases.NewWeatherService(&mockCourseRepo{}, &mockWeatherProvider{}, nil, cache)

	if _, err := svc.RefreshCourse(context.Background(), osloGK); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := cache.Get(context.Background(), "courses:slug:oslo-golfklubb"); err == nil {
		t.Error("expected cached course to be dropped")
	}
}
