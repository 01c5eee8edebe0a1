package workflows

import (
	"context"
	"fmt"

	"go.temporal.io/sdk/activity"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
)

// Activities holds the activity implementations of the weather refresh workflow.
type Activities struct {
	Weather *usecases.WeatherService
}

// ListRefreshTargets returns every course that has coordinates.
func (a *Activities) ListRefreshTargets(ctx context.Context) ([]domain.Course, error) {
	courses, err := a.Weather.Targets(ctx)
	if err != nil {
		return nil, fmt.Errorf("list refresh targets: %w", err)
	}
	activity.GetLogger(ctx).Info("refresh targets loaded", "courses", len(courses))
	return courses, nil
}

// RefreshCourseWeather fetches and stores the current weather of one course.
func (a *Activities) RefreshCourseWeather(ctx context.Context, course domain.Course) error {
	w, err := a.Weather.RefreshCourse(ctx, course)
	if err != nil {
		return err
	}
	activity.GetLogger(ctx).Debug("course weather refreshed",
		"slug", course.Slug, "temperature", w.Temperature, "condition", w.Condition)
	return nil
}
