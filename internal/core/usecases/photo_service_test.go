package usecases_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/ratelimit"
)

// --- Mock PhotoProvider ---

type mockPhotoProvider struct {
	placePhotosFn func(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error)
	calls         int
}

func (m *mockPhotoProvider) PlacePhotos(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
	m.calls++
	if m.placePhotosFn != nil {
		return m.placePhotosFn(ctx, placeID, maxPhotos)
	}
	return nil, nil
}

// --- Mock UsageGate ---

type mockGate struct {
	allow    bool
	recorded []int
}

func (g *mockGate) CanProceed() bool  { return g.allow }
func (g *mockGate) RecordUsage(n int) { g.recorded = append(g.recorded, n) }

func photoRepo() *mockCourseRepo {
	return &mockCourseRepo{
		getBySlugFn: func(ctx context.Context, slug string) (*domain.Course, error) {
			switch slug {
			case "oslo-golfklubb":
				c := osloGK
				c.GooglePlaceID = "ChIJ-oslo"
				return &c, nil
			case "losby-golfpark":
				c := losby
				return &c, nil
			}
			return nil, domain.ErrNotFound
		},
	}
}

func twoPhotos(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
	return []domain.PlacePhoto{
		{URL: "https://example.test/1", AttributionHTML: "Google", Width: 1200, Height: 800},
		{URL: "https://example.test/2", AttributionHTML: "Google", Width: 1200, Height: 800},
	}, nil
}

func TestPhotoService_AllowedRecordsUsage(t *testing.T) {
	provider := &mockPhotoProvider{placePhotosFn: func(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
		if placeID != "ChIJ-oslo" {
			t.Errorf("expected place ChIJ-oslo, got %s", placeID)
		}
		if maxPhotos != 4 {
			t.Errorf("expected max 4, got %d", maxPhotos)
		}
		return twoPhotos(ctx, placeID, maxPhotos)
	}}
	gate := &mockGate{allow: true}
	svc := usecases.NewPhotoService(photoRepo(), provider, gate, nil, 4)

	photos, err := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(photos) != 2 {
		t.Fatalf("expected 2 photos, got %d", len(photos))
	}
	if len(gate.recorded) != 1 || gate.recorded[0] != 2 {
		t.Errorf("expected usage of 2 recorded once, got %v", gate.recorded)
	}
}

func TestPhotoService_DeniedReturnsEmpty(t *testing.T) {
	provider := &mockPhotoProvider{placePhotosFn: twoPhotos}
	gate := &mockGate{allow: false}
	svc := usecases.NewPhotoService(photoRepo(), provider, gate, nil, 4)

	photos, err := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
	if err != nil {
		t.Fatalf("rate limiting must not be an error, got %v", err)
	}
	if photos == nil || len(photos) != 0 {
		t.Errorf("expected empty non-nil list, got %v", photos)
	}
	if provider.calls != 0 {
		t.Errorf("expected no provider calls, got %d", provider.calls)
	}
	if len(gate.recorded) != 0 {
		t.Errorf("expected no usage, got %v", gate.recorded)
	}
}

func TestPhotoService_ProviderFailureRecordsNothing(t *testing.T) {
	provider := &mockPhotoProvider{placePhotosFn: func(ctx context.Context, placeID string, maxPhotos int) ([]domain.PlacePhoto, error) {
		return nil, errors.New("503 from upstream")
	}}
	gate := &mockGate{allow: true}
	svc := usecases.NewPhotoService(photoRepo(), provider, gate, nil, 4)

	photos, err := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(photos) != 0 {
		t.Errorf("expected no photos, got %d", len(photos))
	}
	if len(gate.recorded) != 0 {
		t.Errorf("failed calls must not consume quota, got %v", gate.recorded)
	}
}

func TestPhotoService_CacheHitIsFree(t *testing.T) {
	provider := &mockPhotoProvider{placePhotosFn: twoPhotos}
	gate := &mockGate{allow: true}
	svc := usecases.NewPhotoService(photoRepo(), provider, gate, newMemCache(), 4)

	for i := 0; i < 3; i++ {
		photos, err := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(photos) != 2 {
			t.Fatalf("call %d: expected 2 photos, got %d", i, len(photos))
		}
	}
	if provider.calls != 1 {
		t.Errorf("expected one provider call, got %d", provider.calls)
	}
	if len(gate.recorded) != 1 {
		t.Errorf("expected usage recorded once, got %v", gate.recorded)
	}
}

func TestPhotoService_CourseWithoutPlaceID(t *testing.T) {
	provider := &mockPhotoProvider{placePhotosFn: twoPhotos}
	gate := &mockGate{allow: true}
	svc := usecases.NewPhotoService(photoRepo(), provider, gate, nil, 4)

	photos, err := svc.CoursePhotos(context.Background(), "losby-golfpark")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(photos) != 0 || provider.calls != 0 {
		t.Errorf("expected no lookup for a course without place id")
	}
}

func TestPhotoService_UnknownCourse(t *testing.T) {
	svc := usecases.NewPhotoService(photoRepo(), &mockPhotoProvider{}, &mockGate{allow: true}, nil, 4)

	_, err := svc.CoursePhotos(context.Background(), "nowhere")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestPhotoService_HourlyCeilingWithLimiter(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	limiter := ratelimit.New(ratelimit.Limits{Hourly: 4, Daily: 30, Monthly: 900},
		ratelimit.WithClock(func() time.Time { return now }))
	provider := &mockPhotoProvider{placePhotosFn: twoPhotos}
	svc := usecases.NewPhotoService(photoRepo(), provider, limiter, nil, 4)

	for i := 0; i < 2; i++ {
		photos, _ := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
		if len(photos) != 2 {
			t.Fatalf("call %d: expected photos while under the ceiling", i)
		}
	}

	photos, _ := svc.CoursePhotos(context.Background(), "oslo-golfklubb")
	if len(photos) != 0 {
		t.Fatalf("expected empty list once the hourly ceiling is reached")
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}

	now = now.Add(time.Hour + time.Second)
	photos, _ = svc.CoursePhotos(context.Background(), "oslo-golfklubb")
	if len(photos) != 2 {
		t.Errorf("expected photos after the hourly window reset")
	}
	if got := limiter.Status().Daily.Used; got != 6 {
		t.Errorf("expected daily usage 6, got %d", got)
	}
}
