// Package services orchestrates the ledger store, persistence backend and
// reporting over the engine API surface the UI consumes.
package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"compta/internal/backend"
	"compta/internal/core"
	"compta/internal/export"
	"compta/internal/ledger"
	"compta/internal/log"
)

// LedgerService owns the in-memory ledger and its persistence backend.
// Mutations go through it so derived report caches are invalidated in
// step with the ledger.
type LedgerService struct {
	ledger  *ledger.Ledger
	store   backend.Store
	reports *ReportService
	logger  *log.Logger
}

func NewLedgerService(l *ledger.Ledger, store backend.Store, reports *ReportService, logger *log.Logger) *LedgerService {
	if logger == nil {
		logger = log.New(0, "ledger")
	}
	return &LedgerService{
		ledger:  l,
		store:   store,
		reports: reports,
		logger:  logger,
	}
}

// AddTransaction records a new transaction and applies its balance effect.
func (s *LedgerService) AddTransaction(account string, dir core.Direction, cat core.Category, description string, amount decimal.Decimal) (core.Transaction, error) {
	t, err := s.ledger.Add(account, dir, cat, description, amount)
	if err != nil {
		return core.Transaction{}, err
	}
	s.invalidate()
	s.logger.Info("Transaction added",
		"id", t.ID,
		"account", t.Account,
		"direction", t.Direction.Label(),
		"amount", t.Amount)
	return t, nil
}

// EditTransaction replaces the stored transaction's fields, reverting the
// old balance effect before applying the new one.
func (s *LedgerService) EditTransaction(id int64, account string, dir core.Direction, cat core.Category, description string, amount decimal.Decimal) error {
	if err := s.ledger.Edit(id, account, dir, cat, description, amount); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Info("Transaction edited", "id", id, "account", account)
	return nil
}

// DeleteTransaction reverts and removes a transaction.
func (s *LedgerService) DeleteTransaction(id int64) error {
	if err := s.ledger.Delete(id); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Info("Transaction deleted", "id", id)
	return nil
}

// SetBudget overwrites a category's budget ceiling.
func (s *LedgerService) SetBudget(cat core.Category, amount decimal.Decimal) error {
	if err := s.ledger.SetBudget(cat, amount); err != nil {
		return err
	}
	s.invalidate()
	s.logger.Info("Budget set", "category", cat.Label(), "ceiling", amount)
	return nil
}

// AddAccount creates a zero-balance account if absent.
func (s *LedgerService) AddAccount(name string) error {
	if err := s.ledger.AddAccount(name); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

func (s *LedgerService) GlobalBalance() decimal.Decimal {
	return s.ledger.GlobalBalance()
}

func (s *LedgerService) Transactions() []core.Transaction {
	return s.ledger.Transactions()
}

func (s *LedgerService) Balances() map[string]decimal.Decimal {
	return s.ledger.Balances()
}

func (s *LedgerService) Budgets() map[core.Category]decimal.Decimal {
	return s.ledger.Budgets()
}

func (s *LedgerService) Accounts() []string {
	return s.ledger.Accounts()
}

// Save persists the current snapshot. Failures are logged and returned;
// the in-memory ledger stays the source of truth either way.
func (s *LedgerService) Save(ctx context.Context) error {
	if err := s.store.Save(ctx, s.ledger.Snapshot()); err != nil {
		s.logger.Error("Save failed, in-memory state retained", "error", err)
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Load replaces the ledger with the persisted snapshot. A failed load
// keeps the built-in defaults rather than aborting.
func (s *LedgerService) Load(ctx context.Context) error {
	snap, err := s.store.Load(ctx)
	if err != nil {
		s.logger.Error("Load failed, starting from defaults", "error", err)
		s.invalidate()
		return nil
	}
	created := s.ledger.Restore(snap)
	for _, name := range created {
		s.logger.Warn("Transaction references missing account, created at zero balance", "account", name)
	}
	s.invalidate()
	s.logger.Info("Ledger loaded", "transactions", len(snap.Transactions), "accounts", len(snap.Balances))
	return nil
}

// ExportCSV dumps the transactions to path. Failures never touch the
// in-memory ledger.
func (s *LedgerService) ExportCSV(path string) error {
	if err := export.ExportFile(path, s.ledger.Transactions()); err != nil {
		return err
	}
	s.logger.Info("Transactions exported", "path", path)
	return nil
}

// Close releases the persistence backend.
func (s *LedgerService) Close() error {
	if s.store != nil {
		return s.store.Close()
	}
	return nil
}

func (s *LedgerService) invalidate() {
	if s.reports != nil {
		s.reports.Invalidate()
	}
}
