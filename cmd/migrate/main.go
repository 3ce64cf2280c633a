package main

// Apply or roll back the analysis_reports schema:
//   go run ./cmd/migrate
//   go run ./cmd/migrate -down

import (
	"context"
	"flag"
	"os"

	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/storage/db"
	"resume-ats/internal/shared/telemetry"
)

func main() {
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg := config.Load()
	_ = telemetry.Init(telemetry.Options{Format: cfg.LogFormat, Level: cfg.LogLevel})
	defer telemetry.Sync()

	if err := run(context.Background(), cfg, *down); err != nil {
		telemetry.Error("migrate.failed", map[string]any{"error": err.Error(), "down": *down})
		telemetry.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, down bool) error {
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.WithOverrides(db.DefaultMigrateOptions(), cfg))
	if err != nil {
		return err
	}
	defer sqlDB.Close()

	if down {
		return db.RollbackLast(ctx, sqlDB)
	}
	return db.RunMigrations(ctx, sqlDB)
}
