package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func validConfig(t *testing.T) *Config {
	t.Helper()
	dir := t.TempDir()
	return &Config{
		DataDir:      dir,
		DataBackend:  "file",
		SQLiteDBPath: filepath.Join(dir, "compta.db"),
		LogLevel:     "info",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("COMPTA_DATA_DIR", "")
	t.Setenv("DATA_BACKEND", "")
	t.Setenv("SQLITE_DB_PATH", "")
	t.Setenv("LOG_LEVEL", "")

	cfg := Load()
	if cfg.DataBackend != "file" {
		t.Errorf("DataBackend = %s, want file", cfg.DataBackend)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %s, want info", cfg.LogLevel)
	}
	if cfg.DataDir == "" || cfg.SQLiteDBPath == "" {
		t.Errorf("expected non-empty defaults, got %+v", cfg)
	}
}

func TestLoadFromEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("COMPTA_DATA_DIR", dir)
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", "")
	t.Setenv("LOG_LEVEL", "debug")

	cfg := Load()
	if cfg.DataDir != dir {
		t.Errorf("DataDir = %s, want %s", cfg.DataDir, dir)
	}
	if cfg.DataBackend != "sqlite" {
		t.Errorf("DataBackend = %s, want sqlite", cfg.DataBackend)
	}
	if cfg.SQLiteDBPath != filepath.Join(dir, "compta.db") {
		t.Errorf("SQLiteDBPath = %s", cfg.SQLiteDBPath)
	}
}

func TestValidateOK(t *testing.T) {
	if err := validConfig(t).Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestValidateCreatesDataDir(t *testing.T) {
	cfg := validConfig(t)
	cfg.DataDir = filepath.Join(t.TempDir(), "nested", "data")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected data dir to be created, got %v", err)
	}
}

func TestValidateErrors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantMsg string
	}{
		{
			name:    "bad backend",
			mutate:  func(c *Config) { c.DataBackend = "postgres" },
			wantMsg: "invalid data backend",
		},
		{
			name:    "empty data dir",
			mutate:  func(c *Config) { c.DataDir = "" },
			wantMsg: "data directory cannot be empty",
		},
		{
			name: "sqlite without db path",
			mutate: func(c *Config) {
				c.DataBackend = "sqlite"
				c.SQLiteDBPath = ""
			},
			wantMsg: "SQLite database path",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.LogLevel = "verbose" },
			wantMsg: "invalid log level",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("error %q does not mention %q", err, tt.wantMsg)
			}
		})
	}
}
