package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as database/sql driver

	"resume-ats/internal/shared/config"
	"resume-ats/internal/shared/telemetry"
)

// ErrNoURL is returned by Connect when no DATABASE_URL is configured.
var ErrNoURL = errors.New("DATABASE_URL is empty")

// Options tunes the connection pool behind the report store.
type Options struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

var openDB = sql.Open

// DefaultServerOptions suits the API process, which writes one report per analysis.
func DefaultServerOptions() Options {
	return Options{
		MaxOpenConns:    10,
		MaxIdleConns:    5,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 2 * time.Minute,
		PingTimeout:     5 * time.Second,
	}
}

// DefaultMigrateOptions suits the one-shot migrate command.
func DefaultMigrateOptions() Options {
	opts := DefaultServerOptions()
	opts.MaxOpenConns = 1
	opts.MaxIdleConns = 1
	return opts
}

// WithOverrides applies the non-zero DB_* settings from cfg on top of opts.
func WithOverrides(opts Options, cfg config.Config) Options {
	if cfg.DBMaxOpenConns > 0 {
		opts.MaxOpenConns = cfg.DBMaxOpenConns
	}
	if cfg.DBMaxIdleConns > 0 {
		opts.MaxIdleConns = cfg.DBMaxIdleConns
	}
	if cfg.DBConnMaxLifetime > 0 {
		opts.ConnMaxLifetime = cfg.DBConnMaxLifetime
	}
	if cfg.DBConnMaxIdleTime > 0 {
		opts.ConnMaxIdleTime = cfg.DBConnMaxIdleTime
	}
	if cfg.DBPingTimeout > 0 {
		opts.PingTimeout = cfg.DBPingTimeout
	}
	if opts.MaxIdleConns > opts.MaxOpenConns && opts.MaxOpenConns > 0 {
		opts.MaxIdleConns = opts.MaxOpenConns
	}
	return opts
}

// Connect opens the pgx pool and pings it. Callers share the returned *sql.DB.
func Connect(ctx context.Context, databaseURL string, opts Options) (*sql.DB, error) {
	databaseURL = strings.TrimSpace(databaseURL)
	if databaseURL == "" {
		return nil, ErrNoURL
	}

	db, err := openDB("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	applyOptions(db, opts)

	pingTimeout := opts.PingTimeout
	if pingTimeout <= 0 {
		pingTimeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	host, name := target(databaseURL)
	stats := db.Stats()
	telemetry.Info("db.connected", map[string]any{
		"host":     host,
		"database": name,
		"max_open": stats.MaxOpenConnections,
		"open":     stats.OpenConnections,
		"idle":     stats.Idle,
	})
	return db, nil
}

func applyOptions(db *sql.DB, opts Options) {
	if opts.MaxOpenConns <= 0 {
		opts.MaxOpenConns = 10
	}
	if opts.MaxIdleConns <= 0 {
		opts.MaxIdleConns = 5
	}
	if opts.ConnMaxLifetime <= 0 {
		opts.ConnMaxLifetime = time.Hour
	}
	db.SetMaxOpenConns(opts.MaxOpenConns)
	db.SetMaxIdleConns(opts.MaxIdleConns)
	db.SetConnMaxLifetime(opts.ConnMaxLifetime)
	if opts.ConnMaxIdleTime > 0 {
		db.SetConnMaxIdleTime(opts.ConnMaxIdleTime)
	}
}

// target extracts host and database name for logs, never credentials.
func target(databaseURL string) (host, name string) {
	u, err := url.Parse(databaseURL)
	if err != nil || u.Host == "" {
		return "", ""
	}
	return u.Host, strings.TrimPrefix(u.Path, "/")
}
