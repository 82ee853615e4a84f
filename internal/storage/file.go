package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"compta/internal/core"
	"compta/internal/ledger"
)

const (
	transactionsFile = "transactions.json"
	ledgerStateFile  = "ledger.json"
	backupSuffix     = ".bak"

	dateLayout = "2006-01-02"
)

// FileStore persists the ledger as two JSON blobs under a data directory:
// the transaction list, and the balance map together with the budget map.
// Each file gets a .bak sibling copied before every save. Loading tolerates
// the legacy on-disk formats (see legacy.go) and label-keyed enumerations
// from earlier schema versions.
type FileStore struct {
	dir string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

func (s *FileStore) Close() error { return nil }

type txRecord struct {
	ID          int64           `json:"id"`
	Date        string          `json:"date"`
	Account     string          `json:"account"`
	Direction   string          `json:"direction"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

type txBlob struct {
	Transactions []txRecord `json:"transactions"`
}

type ledgerBlob struct {
	Balances map[string]decimal.Decimal `json:"balances"`
	Budgets  map[string]decimal.Decimal `json:"budgets"`
}

// Save writes both blobs. Existing files are copied to .bak siblings
// first; a failed backup is logged and never aborts the save.
func (s *FileStore) Save(ctx context.Context, snap ledger.Snapshot) error {
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}

	state := ledgerBlob{
		Balances: snap.Balances,
		Budgets:  make(map[string]decimal.Decimal, len(snap.Budgets)),
	}
	for c, b := range snap.Budgets {
		state.Budgets[c.Label()] = b
	}
	if err := s.writeJSON(ctx, ledgerStateFile, state); err != nil {
		return err
	}

	blob := txBlob{Transactions: make([]txRecord, len(snap.Transactions))}
	for i, t := range snap.Transactions {
		blob.Transactions[i] = txRecord{
			ID:          t.ID,
			Date:        t.Date.Format(dateLayout),
			Account:     t.Account,
			Direction:   t.Direction.Label(),
			Category:    t.Category.Label(),
			Description: t.Description,
			Amount:      t.Amount,
		}
	}
	if err := s.writeJSON(ctx, transactionsFile, blob); err != nil {
		return err
	}

	slog.InfoContext(ctx, "Ledger saved",
		"dir", s.dir,
		"transactions", len(snap.Transactions),
		"accounts", len(snap.Balances))
	return nil
}

// Load reads the balance/budget blob first (transactions reference account
// names), then the transaction blob. Each blob falls back to its .bak
// sibling and finally to built-in defaults, so Load itself never fails.
func (s *FileStore) Load(ctx context.Context) (ledger.Snapshot, error) {
	balances, budgets := s.loadLedgerState(ctx)
	for _, a := range core.DefaultAccounts {
		if _, ok := balances[a]; !ok {
			balances[a] = decimal.Zero
		}
	}

	return ledger.Snapshot{
		Transactions: s.loadTransactions(ctx),
		Balances:     balances,
		Budgets:      budgets,
	}, nil
}

func (s *FileStore) loadLedgerState(ctx context.Context) (map[string]decimal.Decimal, map[core.Category]decimal.Decimal) {
	path := filepath.Join(s.dir, ledgerStateFile)

	blob, err := readLedgerBlob(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if balances, ok := s.loadLegacyBalances(ctx); ok {
				return balances, map[core.Category]decimal.Decimal{}
			}
		} else {
			slog.WarnContext(ctx, "Ledger state unreadable, trying backup", "path", path, "error", err)
		}
		blob, err = readLedgerBlob(path + backupSuffix)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.WarnContext(ctx, "Ledger state backup unreadable, using defaults", "error", err)
			}
			return map[string]decimal.Decimal{}, map[core.Category]decimal.Decimal{}
		}
	}

	balances := blob.Balances
	if balances == nil {
		balances = map[string]decimal.Decimal{}
	}
	return balances, convertBudgetKeys(ctx, blob.Budgets)
}

// convertBudgetKeys normalizes a budget map whose keys are plain label
// strings from an earlier schema. Unknown labels are bucketed into Other
// instead of failing the load.
func convertBudgetKeys(ctx context.Context, raw map[string]decimal.Decimal) map[core.Category]decimal.Decimal {
	out := make(map[core.Category]decimal.Decimal, len(raw))
	for label, amount := range raw {
		cat, err := core.ParseCategoryLabel(label)
		if err != nil {
			slog.WarnContext(ctx, "Unknown budget category, bucketing into Other", "label", label)
			cat = core.Other
		}
		out[cat] = out[cat].Add(amount)
	}
	return out
}

func (s *FileStore) loadTransactions(ctx context.Context) []core.Transaction {
	path := filepath.Join(s.dir, transactionsFile)

	blob, err := readTxBlob(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			if txs, ok := s.loadLegacyTransactions(ctx); ok {
				return txs
			}
		} else {
			slog.WarnContext(ctx, "Transactions unreadable, trying backup", "path", path, "error", err)
		}
		blob, err = readTxBlob(path + backupSuffix)
		if err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				slog.WarnContext(ctx, "Transactions backup unreadable, starting empty", "error", err)
			}
			return nil
		}
	}

	txs := make([]core.Transaction, 0, len(blob.Transactions))
	for _, rec := range blob.Transactions {
		t, ok := decodeRecord(ctx, rec)
		if !ok {
			continue
		}
		txs = append(txs, t)
	}
	return txs
}

func decodeRecord(ctx context.Context, rec txRecord) (core.Transaction, bool) {
	when, err := time.Parse(dateLayout, rec.Date)
	if err != nil {
		slog.WarnContext(ctx, "Skipping transaction with malformed date", "id", rec.ID, "date", rec.Date)
		return core.Transaction{}, false
	}
	if rec.Amount.Sign() <= 0 {
		slog.WarnContext(ctx, "Skipping transaction with non-positive amount", "id", rec.ID, "amount", rec.Amount)
		return core.Transaction{}, false
	}

	dir, err := core.ParseDirectionLabel(rec.Direction)
	if err != nil {
		slog.WarnContext(ctx, "Unknown direction, defaulting to Debit", "id", rec.ID, "label", rec.Direction)
		dir = core.Debit
	}
	cat, err := core.ParseCategoryLabel(rec.Category)
	if err != nil {
		slog.WarnContext(ctx, "Unknown category, defaulting to Other", "id", rec.ID, "label", rec.Category)
		cat = core.Other
	}

	return core.Transaction{
		ID:          rec.ID,
		Date:        core.NewDate(when.Year(), int(when.Month()), when.Day()),
		Account:     rec.Account,
		Direction:   dir,
		Category:    cat,
		Description: rec.Description,
		Amount:      rec.Amount,
	}, true
}

func (s *FileStore) writeJSON(ctx context.Context, name string, v any) error {
	path := filepath.Join(s.dir, name)
	backupFile(ctx, path)

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

// backupFile copies an existing file to its .bak sibling. Best-effort: a
// failure is logged and the save continues.
func backupFile(ctx context.Context, path string) {
	if _, err := os.Stat(path); err != nil {
		return
	}
	if err := copyFile(path, path+backupSuffix); err != nil {
		slog.WarnContext(ctx, "Backup failed, saving anyway", "path", path, "error", err)
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func readTxBlob(path string) (txBlob, error) {
	var blob txBlob
	data, err := os.ReadFile(path)
	if err != nil {
		return blob, err
	}
	if err := json.Unmarshal(data, &blob); err != nil {
		return blob, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return blob, nil
}

func readLedgerBlob(path string) (ledgerBlob, error) {
	var blob ledgerBlob
	data, err := os.ReadFile(path)
	if err != nil {
		return blob, err
	}
	if err := json.Unmarshal(data, &blob); err != nil {
		return blob, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return blob, nil
}
