package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

type Config struct {
	// Data directory for the file backend and default location of the
	// SQLite database.
	DataDir string

	// Backend selection
	DataBackend string

	// SQLite
	SQLiteDBPath string

	// Logging
	LogLevel string
}

func Load() *Config {
	dataDir := getEnv("COMPTA_DATA_DIR", defaultDataDir())
	cfg := &Config{
		DataDir:      dataDir,
		DataBackend:  getEnv("DATA_BACKEND", "file"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", filepath.Join(dataDir, "compta.db")),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}
	return cfg
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	validBackends := []string{"file", "sqlite"}
	isValidBackend := false
	for _, backend := range validBackends {
		if c.DataBackend == backend {
			isValidBackend = true
			break
		}
	}
	if !isValidBackend {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	if c.DataDir == "" {
		errors = append(errors, "data directory cannot be empty")
	} else if _, err := os.Stat(c.DataDir); os.IsNotExist(err) {
		if err := os.MkdirAll(c.DataDir, 0755); err != nil {
			errors = append(errors, fmt.Sprintf("cannot create data directory '%s': %v", c.DataDir, err))
		}
	}

	if c.DataBackend == "sqlite" && c.SQLiteDBPath == "" {
		errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	isValidLevel := false
	for _, level := range validLevels {
		if strings.EqualFold(c.LogLevel, level) {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLevels))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "data"
	}
	return filepath.Join(home, "ComptaData")
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
