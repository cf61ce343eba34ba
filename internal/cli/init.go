// Package cli provides the ore command tree and shared process
// initialization used by cmd/ore and cmd/ore-worker.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"ore/internal/config"
	"ore/internal/log"
	"ore/internal/storage"
)

// SetupLogger initializes structured logging with default settings
// and installs it as the slog default.
func SetupLogger(component string) *log.Logger {
	logger := log.New(slog.LevelInfo, component)
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
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the plan history repository at the given path.
// Returns the repository or exits the process on failure.
func InitSQLite(logger *log.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", log.FieldError, err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
