package backend

import (
	"context"
	"fmt"
	"log/slog"

	"compta/internal/ledger"
	"compta/internal/storage"
)

// Store is the persistence boundary of the engine: it durably saves and
// reloads a full ledger snapshot.
type Store interface {
	Save(ctx context.Context, snap ledger.Snapshot) error
	Load(ctx context.Context) (ledger.Snapshot, error)
	Close() error
}

// Type selects the persistence backend.
type Type string

const (
	FileBackend   Type = "file"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid
func (t Type) IsValid() bool {
	switch t {
	case FileBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{FileBackend, SQLiteBackend}
}

// New creates the store described by the config.
func New(_ context.Context, cfg Config, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.Type {
	case FileBackend:
		store := storage.NewFileStore(cfg.DataDir)
		logger.Info("Initialized file backend", "data_dir", cfg.DataDir)
		return store, nil
	case SQLiteBackend:
		store, err := storage.NewSQLiteStore(cfg.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("initialize sqlite store: %w", err)
		}
		logger.Info("Initialized sqlite backend", "db_path", cfg.SQLiteDBPath)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", cfg.Type)
	}
}
