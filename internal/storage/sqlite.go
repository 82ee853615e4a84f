package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"compta/internal/core"
	"compta/internal/ledger"
)

// SQLiteStore persists the ledger in a local SQLite database. Saves
// rewrite the three tables inside one SQL transaction; the database file
// is copied to a .bak sibling first, best-effort, matching the file
// backend's backup-on-save behaviour.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	// Run migrations
	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db, dbPath: dbPath}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap ledger.Snapshot) error {
	backupFile(ctx, s.dbPath)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"transactions", "balances", "budgets"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}

	for _, t := range snap.Transactions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO transactions (id, tx_date, account, direction, category, description, amount)
			 VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Date.Format(dateLayout), t.Account, t.Direction.Label(),
			t.Category.Label(), t.Description, t.Amount.String())
		if err != nil {
			return fmt.Errorf("insert transaction %d: %w", t.ID, err)
		}
	}
	for account, balance := range snap.Balances {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO balances (account, balance) VALUES (?, ?)", account, balance.String())
		if err != nil {
			return fmt.Errorf("insert balance %s: %w", account, err)
		}
	}
	for cat, ceiling := range snap.Budgets {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO budgets (category, ceiling) VALUES (?, ?)", cat.Label(), ceiling.String())
		if err != nil {
			return fmt.Errorf("insert budget %s: %w", cat.Label(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}

	slog.InfoContext(ctx, "Ledger saved to SQLite",
		"db_path", s.dbPath,
		"transactions", len(snap.Transactions),
		"accounts", len(snap.Balances))
	return nil
}

func (s *SQLiteStore) Load(ctx context.Context) (ledger.Snapshot, error) {
	snap := ledger.Snapshot{
		Balances: make(map[string]decimal.Decimal),
		Budgets:  make(map[core.Category]decimal.Decimal),
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, tx_date, account, direction, category, description, amount FROM transactions ORDER BY id")
	if err != nil {
		return snap, fmt.Errorf("read transactions: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			rec  txRecord
			amt  string
			date string
		)
		if err := rows.Scan(&rec.ID, &date, &rec.Account, &rec.Direction, &rec.Category, &rec.Description, &amt); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable transaction row", "error", err)
			continue
		}
		rec.Date = date
		amount, err := decimal.NewFromString(amt)
		if err != nil {
			slog.WarnContext(ctx, "Skipping transaction with bad amount", "id", rec.ID, "amount", amt)
			continue
		}
		rec.Amount = amount
		if t, ok := decodeRecord(ctx, rec); ok {
			snap.Transactions = append(snap.Transactions, t)
		}
	}
	if err := rows.Err(); err != nil {
		return snap, fmt.Errorf("read transactions: %w", err)
	}

	balRows, err := s.db.QueryContext(ctx, "SELECT account, balance FROM balances")
	if err != nil {
		return snap, fmt.Errorf("read balances: %w", err)
	}
	defer balRows.Close()
	for balRows.Next() {
		var account, value string
		if err := balRows.Scan(&account, &value); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable balance row", "error", err)
			continue
		}
		balance, err := decimal.NewFromString(value)
		if err != nil {
			slog.WarnContext(ctx, "Skipping balance with bad value", "account", account, "value", value)
			continue
		}
		snap.Balances[account] = balance
	}
	if err := balRows.Err(); err != nil {
		return snap, fmt.Errorf("read balances: %w", err)
	}

	raw := make(map[string]decimal.Decimal)
	budRows, err := s.db.QueryContext(ctx, "SELECT category, ceiling FROM budgets")
	if err != nil {
		return snap, fmt.Errorf("read budgets: %w", err)
	}
	defer budRows.Close()
	for budRows.Next() {
		var label, value string
		if err := budRows.Scan(&label, &value); err != nil {
			slog.WarnContext(ctx, "Skipping unreadable budget row", "error", err)
			continue
		}
		ceiling, err := decimal.NewFromString(value)
		if err != nil {
			slog.WarnContext(ctx, "Skipping budget with bad ceiling", "category", label, "value", value)
			continue
		}
		raw[label] = ceiling
	}
	if err := budRows.Err(); err != nil {
		return snap, fmt.Errorf("read budgets: %w", err)
	}
	snap.Budgets = convertBudgetKeys(ctx, raw)

	for _, a := range core.DefaultAccounts {
		if _, ok := snap.Balances[a]; !ok {
			snap.Balances[a] = decimal.Zero
		}
	}

	return snap, nil
}
