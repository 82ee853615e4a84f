// Package cli provides common initialization for the compta command.
package cli

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"compta/internal/backend"
	"compta/internal/config"
	"compta/internal/log"
)

// SetupLogger initializes structured logging from the configured level and
// installs it as the process default.
func SetupLogger(level string) *log.Logger {
	logger := log.New(log.ParseLevel(level), "compta")
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as this is optional.
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

// InitStore builds the persistence backend described by the config.
// Returns the store or exits the process on failure.
func InitStore(ctx context.Context, logger *log.Logger, cfg *config.Config) backend.Store {
	backendCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}
	store, err := backend.New(ctx, backendCfg, logger.Logger)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return store
}
