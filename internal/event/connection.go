package event

import (
	"customer-service/internal/config"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const dialAttempts = 5

// URI renders the broker address from cfg; credentials are only included
// when both username and password are set.
func URI(cfg config.RabbitMQConfig) (string, error) {
	if cfg.Host == "" {
		return "", fmt.Errorf("RabbitMQ host is not configured")
	}
	u := url.URL{Scheme: "amqp", Host: cfg.Host, Path: "/"}
	if cfg.Port != 0 {
		u.Host = fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	}
	if cfg.Username != "" && cfg.Password != "" {
		u.User = url.UserPassword(cfg.Username, cfg.Password)
	}
	return u.String(), nil
}

func Connect(cfg config.RabbitMQConfig, logger *slog.Logger) (*amqp.Connection, error) {
	uri, err := URI(cfg)
	if err != nil {
		return nil, err
	}

	var conn *amqp.Connection
	for i := 1; i <= dialAttempts; i++ {
		conn, err = amqp.Dial(uri)
		if err == nil {
			logger.Info("Successfully connected to RabbitMQ", "host", cfg.Host)
			go watchConnection(conn, logger)
			return conn, nil
		}
		logger.Warn("Failed to connect to RabbitMQ, retrying...",
			slog.Int("attempt", i),
			slog.Int("max_attempts", dialAttempts),
			slog.Any("error", err),
		)
		time.Sleep(time.Duration(i*2) * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", dialAttempts, err)
}

func watchConnection(conn *amqp.Connection, logger *slog.Logger) {
	blockChan := conn.NotifyBlocked(make(chan amqp.Blocking))
	closeChan := conn.NotifyClose(make(chan *amqp.Error, 1))

	select {
	case b := <-blockChan:
		logger.Warn("RabbitMQ Connection Blocked", "reason", b.Reason)
	case e := <-closeChan:
		if e != nil {
			logger.Error("RabbitMQ Connection Closed", slog.Any("error", e))
		}
	}
}
