package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/golfkart/golfkart/internal/adapters/email"
	"github.com/golfkart/golfkart/internal/adapters/google"
	"github.com/golfkart/golfkart/internal/adapters/http"
	natsadapter "github.com/golfkart/golfkart/internal/adapters/nats"
	"github.com/golfkart/golfkart/internal/adapters/postgres"
	"github.com/golfkart/golfkart/internal/adapters/valkey"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/config"
	"github.com/golfkart/golfkart/internal/pkg/logging"
	"github.com/golfkart/golfkart/internal/pkg/metrics"
	"github.com/golfkart/golfkart/internal/pkg/ratelimit"
	"github.com/golfkart/golfkart/internal/pkg/telemetry"
)

var version = "dev"

func main() {
	cfg, err := config.Load("golfkart-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Cache is optional; every service treats a nil cache as a miss.
	var (
		cache       ports.CacheService
		cachePinger http.Pinger
	)
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable", "error", err)
	} else {
		defer vc.Close()
		cache, cachePinger = vc, vc
	}

	// NATS
	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, submissions are mailed directly", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	// Raw NATS connection for the WebSocket relay
	natsConn, err := natsadapter.RawConn(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats ws conn unavailable", "error", err)
	} else {
		defer natsConn.Close()
	}

	// Email fallback for when the broker is down
	var notifier ports.SubmissionNotifier
	if n, err := newAdminNotifier(ctx, cfg.Email); err != nil {
		slog.Warn("email unavailable", "error", err)
	} else {
		notifier = n
	}

	httpTimeout := time.Duration(cfg.Google.HTTPTimeout) * time.Second
	weatherClient := google.NewWeatherClient(cfg.Google.WeatherBaseURL, cfg.Google.WeatherAPIKey, httpTimeout)
	placesClient := google.NewPlacesClient(cfg.Google.PlacesBaseURL, cfg.Google.PlacesAPIKey, httpTimeout)

	quota := ratelimit.New(ratelimit.Limits{
		Hourly:  cfg.PhotoQuota.Hourly,
		Daily:   cfg.PhotoQuota.Daily,
		Monthly: cfg.PhotoQuota.Monthly,
	})

	courseRepo := postgres.NewCourseRepo(db)
	storeTimeout := time.Duration(cfg.Nearby.StoreTimeoutMs) * time.Millisecond

	deps := &http.Dependencies{
		Courses:         usecases.NewCourseService(courseRepo, cache, storeTimeout),
		Photos:          usecases.NewPhotoService(courseRepo, placesClient, quota, cache, cfg.Google.MaxPhotos),
		Weather:         usecases.NewWeatherService(courseRepo, weatherClient, publisher, cache),
		Submissions:     usecases.NewSubmissionService(publisher, notifier),
		PhotoQuota:      quota,
		NATS:            natsConn,
		DB:              db,
		Cache:           cachePinger,
		CronSecret:      cfg.Secrets.Cron,
		RateLimitSecret: cfg.Secrets.RateLimit,
		RequestTimeout:  time.Duration(cfg.Server.RequestTimeout) * time.Second,
		Version:         version,
	}

	go publishGauges(ctx, db, quota)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    256 * 1024,
		AppName:      "Golfkart API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "version", version)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

func newAdminNotifier(ctx context.Context, cfg config.EmailConfig) (*email.AdminNotifier, error) {
	sender, err := email.NewSESV2Sender(ctx, cfg.Region, cfg.From)
	if err != nil {
		return nil, err
	}
	templates, err := email.NewTemplateManager()
	if err != nil {
		return nil, fmt.Errorf("parse email templates: %w", err)
	}
	return email.NewAdminNotifier(sender, templates, cfg.AdminEmail), nil
}

// publishGauges copies pool and photo quota state into Prometheus every 15s.
func publishGauges(ctx context.Context, db *postgres.DB, quota *ratelimit.Limiter) {
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			s := quota.Status()
			metrics.ObserveQuota("hourly", s.Hourly.Used, s.Hourly.Limit)
			metrics.ObserveQuota("daily", s.Daily.Used, s.Daily.Limit)
			metrics.ObserveQuota("monthly", s.Monthly.Used, s.Monthly.Limit)
		}
	}
}
