// Package cli consolidates startup boilerplate shared by cmd/finsight
// and cmd/finsight-worker.
package cli

import (
	"os"

	"github.com/joho/godotenv"

	"finsight/internal/config"
	applog "finsight/internal/log"
	"finsight/internal/storage"
)

// LoadEnvFile loads the .env file for local development. Errors are
// ignored; the file is optional in production.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// SetupLogger initializes structured logging for the given component
// and installs it as the default logger.
func SetupLogger(component string) *applog.Logger {
	logger := applog.New(applog.DefaultConfig()).WithComponent(component)
	applog.SetDefault(logger)
	return logger
}

// LoadAndValidateConfig loads configuration and validates it, exiting
// the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitSQLite opens the SQLite repository, exiting the process on failure.
func InitSQLite(logger *applog.Logger, dbPath string) *storage.SQLiteRepository {
	repo, err := storage.NewSQLiteRepository(dbPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", dbPath)
		os.Exit(1)
	}
	return repo
}
