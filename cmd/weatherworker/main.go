package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/golfkart/golfkart/internal/adapters/google"
	natsadapter "github.com/golfkart/golfkart/internal/adapters/nats"
	"github.com/golfkart/golfkart/internal/adapters/postgres"
	"github.com/golfkart/golfkart/internal/adapters/valkey"
	"github.com/golfkart/golfkart/internal/core/ports"
	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/config"
	"github.com/golfkart/golfkart/internal/pkg/logging"
	"github.com/golfkart/golfkart/internal/workflows"
)

const cronWorkflowID = "weather-refresh-cron"

func main() {
	once := flag.Bool("once", false, "run a single refresh and exit")
	flag.Parse()

	cfg, err := config.Load("golfkart-weatherworker")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger := logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx := context.Background()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	var cache ports.CacheService
	if vc, err := valkey.New(cfg.Valkey.Addr); err != nil {
		slog.Warn("valkey unavailable, course cache will not be invalidated", "error", err)
	} else {
		defer vc.Close()
		cache = vc
	}

	var publisher ports.EventPublisher
	if pub, err := natsadapter.NewPublisher(cfg.NATS.URL); err != nil {
		slog.Warn("nats unavailable, weather updates will not be announced", "error", err)
	} else {
		defer pub.Close()
		publisher = pub
	}

	weatherClient := google.NewWeatherClient(cfg.Google.WeatherBaseURL, cfg.Google.WeatherAPIKey,
		time.Duration(cfg.Google.HTTPTimeout)*time.Second)
	weather := usecases.NewWeatherService(postgres.NewCourseRepo(db), weatherClient, publisher, cache)

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
		Logger:    logger,
	})
	if err != nil {
		log.Fatalf("temporal client: %v", err)
	}
	defer c.Close()

	w := worker.New(c, cfg.Temporal.TaskQueue, worker.Options{})
	w.RegisterWorkflow(workflows.WeatherRefreshWorkflow)
	w.RegisterActivity(&workflows.Activities{Weather: weather})

	if *once {
		if err := w.Start(); err != nil {
			log.Fatalf("worker: %v", err)
		}
		defer w.Stop()
		runOnce(ctx, c, cfg.Temporal.TaskQueue)
		return
	}

	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:           cronWorkflowID,
		TaskQueue:    cfg.Temporal.TaskQueue,
		CronSchedule: cfg.Temporal.CronSchedule,
	}, workflows.WeatherRefreshWorkflowName)
	if err != nil {
		log.Fatalf("schedule weather refresh: %v", err)
	}
	slog.Info("weather refresh scheduled", "workflow_id", run.GetID(), "run_id", run.GetRunID(), "cron", cfg.Temporal.CronSchedule)

	slog.Info("weather worker started", "task_queue", cfg.Temporal.TaskQueue)
	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("worker: %v", err)
	}
}

func runOnce(ctx context.Context, c client.Client, taskQueue string) {
	run, err := c.ExecuteWorkflow(ctx, client.StartWorkflowOptions{
		ID:        "weather-refresh-" + time.Now().UTC().Format("20060102T150405"),
		TaskQueue: taskQueue,
	}, workflows.WeatherRefreshWorkflowName)
	if err != nil {
		log.Fatalf("start weather refresh: %v", err)
	}

	var result workflows.RefreshResult
	if err := run.Get(ctx, &result); err != nil {
		log.Fatalf("weather refresh: %v", err)
	}
	slog.Info("weather refresh finished",
		"total", result.TotalCourses,
		"success", result.SuccessCount,
		"errors", result.ErrorCount)
}
