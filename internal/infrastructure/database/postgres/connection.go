package postgres

import (
	"context"
	"customer-service/internal/config"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Used when the matching DatabaseConfig field is left at zero.
const (
	fallbackMaxConns          int32 = 10
	fallbackMaxConnIdleTime         = 5 * time.Minute
	fallbackHealthCheckPeriod       = time.Minute
	fallbackConnectTimeout          = 5 * time.Second
)

var errEmptyURL = errors.New("database URL is empty in configuration")

// pinger is the part of *pgxpool.Pool the startup check needs.
type pinger interface {
	Ping(ctx context.Context) error
}

// OpenPool builds a pgx pool from cfg and refuses to return it until the
// database answers a ping within cfg.ConnectTimeout.
func OpenPool(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger = logger.With("component", "PostgresPool")

	poolCfg, err := poolConfig(cfg)
	if err != nil {
		return nil, err
	}

	logger.InfoContext(ctx, "Opening PostgreSQL pool",
		slog.String("host", poolCfg.ConnConfig.Host),
		slog.String("db", poolCfg.ConnConfig.Database),
		slog.Int("max_conns", int(poolCfg.MaxConns)),
		slog.Int("min_conns", int(poolCfg.MinConns)),
	)
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := awaitReady(ctx, pool, connectTimeout(cfg), logger); err != nil {
		pool.Close()
		return nil, err
	}

	logger.InfoContext(ctx, "PostgreSQL pool ready")
	return pool, nil
}

// poolConfig parses the URL and applies the sizing and liveness settings.
// A MinConns above MaxConns is clamped so pgxpool accepts the config.
func poolConfig(cfg config.DatabaseConfig) (*pgxpool.Config, error) {
	if cfg.URL == "" {
		return nil, errEmptyURL
	}
	pc, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse database config from URL: %w", err)
	}

	pc.MaxConns = orDefault(cfg.MaxConns, fallbackMaxConns)
	pc.MinConns = min(max(cfg.MinConns, 0), pc.MaxConns)
	pc.MaxConnIdleTime = orDefault(cfg.MaxConnIdleTime, fallbackMaxConnIdleTime)
	pc.HealthCheckPeriod = orDefault(cfg.HealthCheckPeriod, fallbackHealthCheckPeriod)
	pc.ConnConfig.ConnectTimeout = connectTimeout(cfg)

	return pc, nil
}

func connectTimeout(cfg config.DatabaseConfig) time.Duration {
	return orDefault(cfg.ConnectTimeout, fallbackConnectTimeout)
}

func orDefault[T int32 | time.Duration](v, fallback T) T {
	if v <= 0 {
		return fallback
	}
	return v
}

func awaitReady(ctx context.Context, db pinger, timeout time.Duration, logger *slog.Logger) error {
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := db.Ping(pingCtx); err != nil {
		logger.ErrorContext(ctx, "Database did not answer ping", slog.Duration("timeout", timeout), slog.Any("error", err))
		return fmt.Errorf("failed to ping database on connect: %w", err)
	}
	return nil
}
