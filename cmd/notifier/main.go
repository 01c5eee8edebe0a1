package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/golfkart/golfkart/internal/adapters/email"
	natsadapter "github.com/golfkart/golfkart/internal/adapters/nats"
	"github.com/golfkart/golfkart/internal/core/domain"
	"github.com/golfkart/golfkart/internal/core/usecases"
	"github.com/golfkart/golfkart/internal/pkg/config"
	"github.com/golfkart/golfkart/internal/pkg/logging"
	"github.com/golfkart/golfkart/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("golfkart-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, cfg.Log.Format, cfg.Telemetry.ServiceName)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	sender, err := email.NewSESV2Sender(ctx, cfg.Email.Region, cfg.Email.From)
	if err != nil {
		log.Fatalf("ses: %v", err)
	}
	templates, err := email.NewTemplateManager()
	if err != nil {
		log.Fatalf("email templates: %v", err)
	}
	submissions := usecases.NewSubmissionService(nil, email.NewAdminNotifier(sender, templates, cfg.Email.AdminEmail))

	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	err = sub.SubscribeSubmissions(ctx, func(ctx context.Context, s *domain.Submission) error {
		if err := submissions.Deliver(ctx, s); err != nil {
			return err
		}
		slog.InfoContext(ctx, "submission delivered", "id", s.ID, "kind", s.Kind)
		return nil
	})
	if err != nil {
		log.Fatalf("subscribe submissions: %v", err)
	}

	slog.Info("notifier started", "admin", cfg.Email.AdminEmail)
	<-ctx.Done()
	slog.Info("notifier stopping")
}
