// Package cli provides common initialization utilities for cmd/spend.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"spend/internal/config"
	"spend/internal/events"
	"spend/internal/log"
	"spend/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// sets it as the process default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.Config{
		Level:     log.ParseLevel(level),
		Component: log.ComponentApp,
	})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *slog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite initializes a SQLite repository with the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *slog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}

// InitPublisher connects the optional AMQP publisher. A missing URL or
// a failed connection disables event publishing rather than aborting
// startup.
func InitPublisher(logger *slog.Logger, cfg *config.Config) *events.Publisher {
	if cfg.AMQPURL == "" {
		logger.Info("AMQP URL not set, event publishing disabled")
		return nil
	}
	publisher, err := events.NewPublisher(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Warn("Failed to connect AMQP publisher, continuing without events", "error", err)
		return nil
	}
	logger.Info("AMQP publisher connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	return publisher
}
