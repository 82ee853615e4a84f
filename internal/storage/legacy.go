package storage

import (
	"context"
	"encoding/csv"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"compta/internal/core"
)

// Legacy on-disk formats from the previous schema: a 7-column quoted CSV
// of transactions with dd/MM/yyyy dates, and a name=value text file of
// account balances. Both are read tolerantly, row by row, and only when
// the current JSON blobs are absent.
const (
	legacyTransactionsFile = "transactions.csv"
	legacyBalancesFile     = "account_balances.txt"

	legacyDateLayout = "02/01/2006"
)

func (s *FileStore) loadLegacyTransactions(ctx context.Context) ([]core.Transaction, bool) {
	path := filepath.Join(s.dir, legacyTransactionsFile)
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		slog.WarnContext(ctx, "Legacy transactions file unreadable", "path", path, "error", err)
		return nil, false
	}

	var txs []core.Transaction
	for i, row := range rows {
		if i == 0 {
			// header row
			continue
		}
		t, ok := decodeLegacyRow(ctx, row)
		if !ok {
			continue
		}
		txs = append(txs, t)
	}

	slog.InfoContext(ctx, "Migrated transactions from legacy CSV", "path", path, "count", len(txs))
	return txs, true
}

func decodeLegacyRow(ctx context.Context, row []string) (core.Transaction, bool) {
	if len(row) != 7 {
		slog.WarnContext(ctx, "Skipping malformed legacy row", "fields", len(row))
		return core.Transaction{}, false
	}

	id, err := strconv.ParseInt(row[0], 10, 64)
	if err != nil {
		slog.WarnContext(ctx, "Skipping legacy row with bad id", "id", row[0])
		return core.Transaction{}, false
	}
	when, err := time.Parse(legacyDateLayout, row[1])
	if err != nil {
		slog.WarnContext(ctx, "Skipping legacy row with bad date", "id", id, "date", row[1])
		return core.Transaction{}, false
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(row[6]))
	if err != nil || amount.Sign() <= 0 {
		slog.WarnContext(ctx, "Skipping legacy row with bad amount", "id", id, "amount", row[6])
		return core.Transaction{}, false
	}

	dir, err := core.ParseDirectionLabel(row[3])
	if err != nil {
		slog.WarnContext(ctx, "Unknown direction in legacy row, defaulting to Debit", "id", id, "label", row[3])
		dir = core.Debit
	}
	cat, err := core.ParseCategoryLabel(row[4])
	if err != nil {
		slog.WarnContext(ctx, "Unknown category in legacy row, defaulting to Other", "id", id, "label", row[4])
		cat = core.Other
	}

	return core.Transaction{
		ID:          id,
		Date:        core.NewDate(when.Year(), int(when.Month()), when.Day()),
		Account:     row[2],
		Direction:   dir,
		Category:    cat,
		Description: row[5],
		Amount:      amount,
	}, true
}

func (s *FileStore) loadLegacyBalances(ctx context.Context) (map[string]decimal.Decimal, bool) {
	path := filepath.Join(s.dir, legacyBalancesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false
	}

	balances := make(map[string]decimal.Decimal)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, value, found := strings.Cut(line, "=")
		if !found {
			slog.WarnContext(ctx, "Skipping malformed legacy balance line", "line", line)
			continue
		}
		balance, err := decimal.NewFromString(strings.TrimSpace(value))
		if err != nil {
			slog.WarnContext(ctx, "Skipping legacy balance with bad value", "account", name, "value", value)
			continue
		}
		balances[strings.TrimSpace(name)] = balance
	}

	slog.InfoContext(ctx, "Migrated balances from legacy file", "path", path, "accounts", len(balances))
	return balances, true
}
