// Package cli provides common CLI initialization utilities for cmd/tally.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"tally/internal/config"
	"tally/internal/log"
	"tally/internal/storage"
	"tally/internal/store"
	"tally/internal/store/memory"
)

// SetupLogger initializes structured logging with default settings.
// Returns the configured logger and sets it as the default logger.
func SetupLogger() *log.Logger {
	logger := log.New(log.DefaultConfig())
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
func LoadAndValidateConfig(logger *log.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// OpenBackend builds the record store and sheet registry the configuration
// selects. The returned cleanup releases the backend's resources and is
// never nil.
func OpenBackend(logger *log.Logger, cfg *config.Config) (store.RecordStore, store.SheetRegistry, func() error) {
	switch cfg.DataBackend {
	case "sqlite":
		repo, err := storage.Open(cfg.SQLiteDBPath)
		if err != nil {
			logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
			os.Exit(1)
		}
		logger.Info("Using SQLite backend", "path", cfg.SQLiteDBPath)
		return repo, repo, repo.Close
	default:
		logger.Info("Using in-memory backend")
		mem := memory.New()
		return mem, mem, func() error { return nil }
	}
}
