package main

import (
	"context"
	"customer-service/internal/batch"
	"customer-service/internal/config"
	"customer-service/internal/domain/customer"
	"customer-service/internal/event"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"syscall"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestOpenStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, closeFn, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverMemory}, testLogger)
		require.NoError(t, err)
		defer closeFn()
		assert.NoError(t, store.Ping(ctx))
	})

	t.Run("sqlite", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "customers.db")
		store, closeFn, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, testLogger)
		require.NoError(t, err)
		defer closeFn()

		cust := customer.NewCustomer("Alex", "alex@example.com", 30)
		require.NoError(t, store.Insert(ctx, cust))
		assert.NotZero(t, cust.ID)
	})

	t.Run("postgres without url", func(t *testing.T) {
		_, _, err := openStore(ctx, config.DatabaseConfig{Driver: config.DriverPostgres}, testLogger)
		assert.Error(t, err)
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, _, err := openStore(ctx, config.DatabaseConfig{Driver: "oracle"}, testLogger)
		assert.ErrorContains(t, err, "unknown database driver")
	})
}

func TestInitializePublisherDisabled(t *testing.T) {
	pub, closeFn := initializePublisher(config.RabbitMQConfig{Enabled: false}, testLogger)
	defer closeFn()
	assert.IsType(t, event.NoopPublisher{}, pub)
}

func TestStartBatchJobs(t *testing.T) {
	store, closeFn, err := openStore(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory}, testLogger)
	require.NoError(t, err)
	defer closeFn()

	svc := customer.NewCustomerService(store, nil, testLogger)
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{Name: "main_test_gauge"})
	job := batch.NewCustomerCountJob(svc, gauge, testLogger)

	cfg := &config.Config{Batch: config.BatchConfig{CustomerCountSchedule: "@every 1h", CustomerCountTimeout: time.Second}}
	c := startBatchJobs(cfg, testLogger, job)
	defer c.Stop()

	assert.Len(t, c.Entries(), 1)
}

func TestStartServerAndShutdown(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:         0,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			IdleTimeout:  5 * time.Second,
		},
	}
	srv, serverErrors, _ := startServer(cfg, http.NewServeMux(), testLogger)
	require.NotNil(t, srv)

	store, closeFn, err := openStore(context.Background(), config.DatabaseConfig{Driver: config.DriverMemory}, testLogger)
	require.NoError(t, err)
	defer closeFn()
	job := batch.NewCustomerCountJob(customer.NewCustomerService(store, nil, testLogger),
		prometheus.NewGauge(prometheus.GaugeOpts{Name: "shutdown_test_gauge"}), testLogger)
	c := startBatchJobs(&config.Config{}, testLogger, job)

	shutdownChan := make(chan os.Signal, 1)
	shutdownChan <- syscall.SIGTERM

	done := make(chan struct{})
	go func() {
		handleShutdown(srv, c, shutdownChan, serverErrors, testLogger)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("shutdown did not complete")
	}
}
