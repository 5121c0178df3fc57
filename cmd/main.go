package main

import (
	"context"
	_ "customer-service/docs"
	"customer-service/internal/api"
	mw "customer-service/internal/api/middleware"
	"customer-service/internal/batch"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"customer-service/internal/infrastructure/database/memory"
	"customer-service/internal/infrastructure/database/postgres"
	"customer-service/internal/infrastructure/database/sqlite"
	"customer-service/internal/infrastructure/logging"
	"customer-service/internal/seed"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// customerStore is what every storage backend offers.
type customerStore interface {
	customer.CustomerRepository
	Ping(ctx context.Context) error
}

// @title Customer Service API
// @version 1.0
// @description CRUD API over customer records.

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, logger := initializeApp()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store, closeStore, err := openStore(ctx, cfg.Database, logger)
	if err != nil {
		logger.Error("Failed to initialize customer store", "driver", cfg.Database.Driver, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	publisher, closePublisher := initializePublisher(cfg.RabbitMQ, logger)
	defer closePublisher()

	customerService := customer.NewCustomerService(store, publisher, logger)

	if cfg.Seed.Enabled {
		if _, err := seed.NewSeeder(customerService, nil, logger).SeedOne(ctx); err != nil {
			logger.Warn("Startup seeding skipped", "error", err)
		}
	}

	countJob := batch.NewCustomerCountJob(customerService, batch.CustomersRegistered, logger)
	cronScheduler := startBatchJobs(cfg, logger, countJob)

	limiter := mw.NewRateLimiter(cfg.Server.RateLimit, logger)
	go limiter.Run(ctx)

	router := api.SetupRouter(api.Dependencies{
		CustomerService: customerService,
		Store:           store,
		RateLimiter:     limiter,
	}, cfg, logger)

	srv, serverErrors, shutdownChan := startServer(cfg, router, logger)
	handleShutdown(srv, cronScheduler, shutdownChan, serverErrors, logger)
}

func initializeApp() (*config.Config, *slog.Logger) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := logging.NewLogger(cfg.Logger)
	logger.Info("Application starting...", "config_source", viper.ConfigFileUsed(), "driver", cfg.Database.Driver)

	return cfg, logger
}

// openStore picks the backend named by cfg.Driver. The returned func
// releases it.
func openStore(ctx context.Context, cfg config.DatabaseConfig, logger *slog.Logger) (customerStore, func(), error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		logger.Info("Initializing database connection pool...")
		pool, err := postgres.OpenPool(ctx, cfg, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			logger.Info("Closing database connection pool...")
			pool.Close()
		}
		return postgres.NewCustomerRepository(pool, logger), closeFn, nil
	case config.DriverSQLite:
		logger.Info("Opening SQLite database...", "path", cfg.Path)
		repo, err := sqlite.Open(ctx, cfg.Path, logger)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() {
			if err := repo.Close(); err != nil {
				logger.Warn("Failed to close SQLite database", "error", err)
			}
		}
		return repo, closeFn, nil
	case config.DriverMemory:
		logger.Warn("Using in-memory customer store; data is lost on exit")
		return memory.NewCustomerRepository(logger), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
}

// initializePublisher falls back to a no-op publisher when RabbitMQ is
// disabled or unreachable; events are best-effort.
func initializePublisher(cfg config.RabbitMQConfig, logger *slog.Logger) (event.EventPublisher, func()) {
	noop := func() {}
	if !cfg.Enabled {
		logger.Info("RabbitMQ disabled, customer events will not be published")
		return event.NoopPublisher{}, noop
	}

	conn, err := event.Connect(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to RabbitMQ, continuing without events", "error", err)
		return event.NoopPublisher{}, noop
	}

	publisher, err := event.NewRabbitMQEventPublisher(conn, cfg.ExchangeName, logger)
	if err != nil {
		logger.Error("Failed to set up RabbitMQ publisher, continuing without events", "error", err)
		_ = conn.Close()
		return event.NoopPublisher{}, noop
	}

	return publisher, func() {
		logger.Info("Closing RabbitMQ connection...")
		if err := conn.Close(); err != nil {
			logger.Warn("Failed to close RabbitMQ connection", "error", err)
		}
	}
}

func startServer(cfg *config.Config, router http.Handler, logger *slog.Logger) (*http.Server, <-chan error, <-chan os.Signal) {
	logger.Info("Setting up HTTP server...", "port", cfg.Server.Port)
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("Server listening", "addr", srv.Addr)
		err := srv.ListenAndServe()
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server error", "error", err)
			serverErrors <- err
			return
		}
		logger.Info("Server closed gracefully.")
		serverErrors <- nil
	}()
	return srv, serverErrors, shutdownChan
}

func handleShutdown(srv *http.Server, cronScheduler *cron.Cron, shutdownChan <-chan os.Signal, serverErrors <-chan error, logger *slog.Logger) {
	select {
	case sig := <-shutdownChan:
		logger.Info("Shutdown signal received.", "signal", sig.String())
	case err := <-serverErrors:
		if err != nil {
			logger.Error("Server exited unexpectedly before signal", "error", err)
			stopCron(cronScheduler, logger)
			return
		}
		logger.Info("Server goroutine finished before signal.")
	}

	stopCron(cronScheduler, logger)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	logger.Info("Shutting down HTTP server...")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server graceful shutdown failed, forcing close", "error", err)
		if err := srv.Close(); err != nil {
			logger.Error("HTTP server forced close failed", "error", err)
		}
	}

	select {
	case err := <-serverErrors:
		if err != nil {
			logger.Warn("Server goroutine exited with unexpected error after shutdown", "error", err)
		}
	case <-time.After(5 * time.Second):
		logger.Warn("Timed out waiting for server goroutine confirmation.")
	}

	logger.Info("Application shutdown process complete.")
}

func stopCron(cronScheduler *cron.Cron, logger *slog.Logger) {
	logger.Info("Stopping cron scheduler...")
	select {
	case <-cronScheduler.Stop().Done():
		logger.Info("Cron scheduler stopped gracefully.")
	case <-time.After(15 * time.Second):
		logger.Warn("Cron scheduler shutdown timed out.")
	}
}

func startBatchJobs(cfg *config.Config, logger *slog.Logger, countJob *batch.CustomerCountJob) *cron.Cron {
	logger.Info("Initializing batch job scheduler...")
	c := cron.New()

	if _, err := countJob.Schedule(c, cfg.Batch.CustomerCountSchedule, cfg.Batch.CustomerCountTimeout); err != nil {
		logger.Error("Failed to schedule customer count job", slog.Any("error", err))
	}

	c.Start()
	logger.Info("Cron scheduler started.")
	return c
}
