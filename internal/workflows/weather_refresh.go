package workflows

import (
	"fmt"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
)

// WeatherRefreshWorkflowName is the registered name used by the cron schedule.
const WeatherRefreshWorkflowName = "WeatherRefreshWorkflow"

const maxReportedErrors = 10

// RefreshResult summarizes one workflow run.
type RefreshResult struct {
	TotalCourses int      `json:"totalCourses"`
	SuccessCount int      `json:"successCount"`
	ErrorCount   int      `json:"errorCount"`
	Errors       []string `json:"errors"`
}

// WeatherRefreshWorkflow refreshes the stored weather of every course, one
// course at a time with a short pause between provider calls. A course that
// still fails after its retries is counted and skipped.
func WeatherRefreshWorkflow(ctx workflow.Context) (*RefreshResult, error) {
	logger := workflow.GetLogger(ctx)

	ctx = workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval: time.Second,
			MaximumAttempts: 2,
		},
	})

	var courses []domain.Course
	if err := workflow.ExecuteActivity(ctx, "ListRefreshTargets").Get(ctx, &courses); err != nil {
		return nil, err
	}
	logger.Info("weather refresh started", "courses", len(courses))

	result := &RefreshResult{TotalCourses: len(courses), Errors: []string{}}
	for i, course := range courses {
		err := workflow.ExecuteActivity(ctx, "RefreshCourseWeather", course).Get(ctx, nil)
		if err != nil {
			result.ErrorCount++
			if len(result.Errors) < maxReportedErrors {
				result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", course.Slug, err))
			}
			logger.Warn("course refresh failed", "slug", course.Slug, "error", err)
		} else {
			result.SuccessCount++
		}

		if i < len(courses)-1 {
			if err := workflow.Sleep(ctx, usecases.RefreshPause); err != nil {
				return result, err
			}
		}
	}

	logger.Info("weather refresh completed",
		"total", result.TotalCourses,
		"success", result.SuccessCount,
		"errors", result.ErrorCount)
	return result, nil
}
