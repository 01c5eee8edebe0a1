package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"time"

	"github.com/golfkart/golfkart/internal/adapters/postgres"
	"github.com/golfkart/golfkart/internal/pkg/config"
	"github.com/golfkart/golfkart/internal/pkg/logging"
)

func main() {
	batchSize := flag.Int("batch", 100, "courses per database batch")
	dryRun := flag.Bool("dry-run", false, "parse and validate without writing")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: importer [-batch 100] [-dry-run] <file.json|dir> ...")
	}

	cfg, err := config.Load("golfkart-importer")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", cfg.Telemetry.ServiceName)

	start := time.Now()
	courses, skipped, err := loadCourses(flag.Args())
	if err != nil {
		log.Fatalf("load courses: %v", err)
	}
	slog.Info("courses parsed", "valid", len(courses), "skipped", skipped)

	if *dryRun {
		return
	}

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	repo := postgres.NewCourseRepo(db)
	for _, batch := range chunk(courses, *batchSize) {
		if err := repo.UpsertBatch(ctx, batch); err != nil {
			log.Fatalf("upsert batch starting at %s: %v", batch[0].Slug, err)
		}
		slog.Debug("batch written", "courses", len(batch))
	}

	slog.Info("import complete", "courses", len(courses), "duration", time.Since(start).String())
}
