package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"compta/internal/core"
	"compta/internal/ledger"
	"compta/internal/storage"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func newService(t *testing.T, dir string) *LedgerService {
	t.Helper()
	l := ledger.New()
	reports := NewReportService(l)
	return NewLedgerService(l, storage.NewFileStore(dir), reports, nil)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	svc := newService(t, dir)
	if _, err := svc.AddTransaction("Bank", core.Credit, core.Salary, "Salaire mars", dec(t, "2000")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := svc.AddTransaction("Cash", core.Debit, core.Food, "Marché", dec(t, "45.50")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.SetBudget(core.Food, dec(t, "120")); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := svc.Save(ctx); err != nil {
		t.Fatalf("save: %v", err)
	}

	reloaded := newService(t, dir)
	if err := reloaded.Load(ctx); err != nil {
		t.Fatalf("load: %v", err)
	}

	if got := reloaded.GlobalBalance(); !got.Equal(dec(t, "1954.50")) {
		t.Fatalf("global balance after reload: %s", got)
	}
	txs := reloaded.Transactions()
	if len(txs) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(txs))
	}
	if txs[0].ID != 1 || txs[1].ID != 2 {
		t.Fatalf("ids not preserved: %d, %d", txs[0].ID, txs[1].ID)
	}
	if !reloaded.Budgets()[core.Food].Equal(dec(t, "120")) {
		t.Fatalf("budget not preserved: %s", reloaded.Budgets()[core.Food])
	}

	// New ids continue after the highest persisted one.
	next, err := reloaded.AddTransaction("Cash", core.Debit, core.Other, "Divers", dec(t, "1"))
	if err != nil {
		t.Fatalf("add after reload: %v", err)
	}
	if next.ID != 3 {
		t.Fatalf("expected id 3 after reload, got %d", next.ID)
	}
}

func TestLoadMissingDataStartsFromDefaults(t *testing.T) {
	svc := newService(t, t.TempDir())
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(svc.Transactions()) != 0 {
		t.Fatal("expected empty ledger")
	}
	accounts := svc.Accounts()
	if len(accounts) != len(core.DefaultAccounts) {
		t.Fatalf("expected default accounts, got %v", accounts)
	}
}

func TestMutationsInvalidateReportCache(t *testing.T) {
	l := ledger.New()
	reports := NewReportService(l)
	svc := NewLedgerService(l, storage.NewFileStore(t.TempDir()), reports, nil)

	now := time.Now()
	before := reports.MonthOverview(now.Year(), int(now.Month()))
	if !before.Spent.IsZero() {
		t.Fatalf("expected zero spend, got %s", before.Spent)
	}

	if _, err := svc.AddTransaction("Cash", core.Debit, core.Food, "Marché", dec(t, "30")); err != nil {
		t.Fatalf("add: %v", err)
	}

	after := reports.MonthOverview(now.Year(), int(now.Month()))
	if !after.Spent.Equal(dec(t, "30")) {
		t.Fatalf("overview should reflect the mutation, got spent %s", after.Spent)
	}
}

func TestExportCSV(t *testing.T) {
	dir := t.TempDir()
	svc := newService(t, dir)
	if _, err := svc.AddTransaction("Cash", core.Debit, core.Food, "Marché", dec(t, "30")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := svc.ExportCSV(dir + "/export.csv"); err != nil {
		t.Fatalf("export: %v", err)
	}
}

func TestValidationErrorsPropagate(t *testing.T) {
	svc := newService(t, t.TempDir())
	if _, err := svc.AddTransaction("Cash", core.Debit, core.Food, "  ", dec(t, "5")); err == nil {
		t.Fatal("expected validation error for blank description")
	}
	if err := svc.DeleteTransaction(42); err == nil {
		t.Fatal("expected not-found error")
	}
	if err := svc.SetBudget(core.Salary, dec(t, "10")); err == nil {
		t.Fatal("expected budget-not-allowed error for Salary")
	}
}
