package http

import (
	"context"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/ratelimit"
)

// Pinger is implemented by the database and cache clients checked by /v1/ready.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Courses     *usecases.CourseService
	Photos      *usecases.PhotoService
	Weather     *usecases.WeatherService
	Submissions *usecases.SubmissionService
	PhotoQuota  *ratelimit.Limiter
	NATS        *nats.Conn
	DB          Pinger
	Cache       Pinger

	// CronSecret guards the weather refresh trigger. Empty disables the check.
	CronSecret string
	// RateLimitSecret guards the quota status report. Empty locks it.
	RateLimitSecret string
	RequestTimeout  time.Duration
	Version         string
}

func (d *Dependencies) requestTimeout() time.Duration {
	if d.RequestTimeout <= 0 {
		return 15 * time.Second
	}
	return d.RequestTimeout
}
