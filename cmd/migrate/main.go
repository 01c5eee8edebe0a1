package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/golfkart/golfkart/internal/adapters/postgres"
	"github.com/golfkart/golfkart/internal/pkg/config"
	"github.com/golfkart/golfkart/internal/pkg/logging"
)

const createVersionTable = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version    TEXT PRIMARY KEY,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	dir := flag.String("dir", "migrations", "directory holding the NNN_name.sql files")
	flag.Parse()

	if flag.NArg() < 1 {
		log.Fatal("usage: migrate [-dir migrations] <up|status>")
	}

	cfg, err := config.Load("golfkart-migrate")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Log.Level, "text", cfg.Telemetry.ServiceName)

	ctx := context.Background()
	db, err := postgres.New(ctx, cfg.Database.DSN(), 2)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer db.Close()

	if _, err := db.Pool.Exec(ctx, createVersionTable); err != nil {
		log.Fatalf("create schema_migrations: %v", err)
	}

	files, err := migrationFiles(*dir)
	if err != nil {
		log.Fatalf("list migrations: %v", err)
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		log.Fatalf("read applied versions: %v", err)
	}

	switch flag.Arg(0) {
	case "up":
		n := 0
		for _, f := range pending(files, applied) {
			if err := apply(ctx, db, f); err != nil {
				log.Fatalf("apply %s: %v", filepath.Base(f), err)
			}
			slog.Info("migration applied", "file", filepath.Base(f))
			n++
		}
		slog.Info("migrations complete", "applied", n, "total", len(files))
	case "status":
		for _, f := range files {
			state := "pending"
			if applied[version(f)] {
				state = "applied"
			}
			fmt.Printf("%-8s %s\n", state, filepath.Base(f))
		}
	default:
		log.Fatalf("unknown command: %s", flag.Arg(0))
	}
}

// migrationFiles returns the .sql files of dir in lexical order.
func migrationFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.sql"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// version is the file name without its extension, e.g. "002_course_ratings".
func version(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}

func pending(files []string, applied map[string]bool) []string {
	var out []string
	for _, f := range files {
		if !applied[version(f)] {
			out = append(out, f)
		}
	}
	return out
}

func appliedVersions(ctx context.Context, db *postgres.DB) (map[string]bool, error) {
	rows, err := db.Pool.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	versions, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, err
	}

	applied := make(map[string]bool, len(versions))
	for _, v := range versions {
		applied[v] = true
	}
	return applied, nil
}

// apply runs one file and records its version in the same transaction.
func apply(ctx context.Context, db *postgres.DB, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	return pgx.BeginFunc(ctx, db.Pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, string(data)); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version(path))
		return err
	})
}
