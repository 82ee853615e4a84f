package services

import (
	"testing"
	"time"

	"compta/internal/core"
	"compta/internal/ledger"
)

func TestMonthOverviewStatuses(t *testing.T) {
	l := ledger.New()
	reports := NewReportService(l)

	if err := l.SetBudget(core.Food, dec(t, "100")); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if err := l.SetBudget(core.Transport, dec(t, "50")); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	// Food at exactly 80% of its ceiling, Transport over it.
	if _, err := l.Add("Cash", core.Debit, core.Food, "Courses", dec(t, "80")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add("Cash", core.Debit, core.Transport, "Essence", dec(t, "60")); err != nil {
		t.Fatalf("add: %v", err)
	}

	now := time.Now()
	ov := reports.MonthOverview(now.Year(), int(now.Month()))

	if !ov.Spent.Equal(dec(t, "140")) {
		t.Fatalf("spent = %s, want 140", ov.Spent)
	}
	if len(ov.Budgets) != len(core.BudgetableCategories()) {
		t.Fatalf("expected one line per budgetable category, got %d", len(ov.Budgets))
	}

	byCat := make(map[core.Category]core.BudgetLine)
	for _, line := range ov.Budgets {
		byCat[line.Category] = line
	}
	if got := byCat[core.Food].Status; got != core.BudgetOK {
		t.Fatalf("Food at 80%% should be ok, got %s", got)
	}
	if got := byCat[core.Transport].Status; got != core.BudgetExceeded {
		t.Fatalf("Transport over ceiling should be exceeded, got %s", got)
	}
	if got := byCat[core.Leisure].Status; got != core.BudgetNeutral {
		t.Fatalf("unbudgeted Leisure should be neutral, got %s", got)
	}
}

func TestMonthOverviewIsMemoized(t *testing.T) {
	l := ledger.New()
	reports := NewReportService(l)

	now := time.Now()
	first := reports.MonthOverview(now.Year(), int(now.Month()))

	// Mutating the ledger directly, without going through the service,
	// must not change the memoized overview until Invalidate is called.
	if _, err := l.Add("Cash", core.Debit, core.Food, "Courses", dec(t, "10")); err != nil {
		t.Fatalf("add: %v", err)
	}
	cached := reports.MonthOverview(now.Year(), int(now.Month()))
	if !cached.Spent.Equal(first.Spent) {
		t.Fatalf("expected memoized overview, got spent %s", cached.Spent)
	}

	reports.Invalidate()
	fresh := reports.MonthOverview(now.Year(), int(now.Month()))
	if !fresh.Spent.Equal(dec(t, "10")) {
		t.Fatalf("expected recomputed overview after invalidate, got %s", fresh.Spent)
	}
}

func TestTotalsAndShares(t *testing.T) {
	l := ledger.New()
	reports := NewReportService(l)

	if _, err := l.Add("Bank", core.Credit, core.Salary, "Salaire", dec(t, "2000")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add("Cash", core.Debit, core.Food, "Marché", dec(t, "45.50")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := l.Add("Cash", core.Debit, core.Leisure, "Cinéma", dec(t, "12")); err != nil {
		t.Fatalf("add: %v", err)
	}

	totals := reports.Totals()
	if !totals.Credit.Equal(dec(t, "2000")) || !totals.Debit.Equal(dec(t, "57.50")) {
		t.Fatalf("totals = %+v", totals)
	}

	shares := reports.ExpenseShares()
	if len(shares) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(shares))
	}
	if shares[0].Category != core.Food || shares[1].Category != core.Leisure {
		t.Fatalf("expected descending order, got %v then %v", shares[0].Category, shares[1].Category)
	}

	dir := core.Debit
	filtered := reports.Filter(ledger.Criteria{Direction: &dir, Search: "marché"})
	if len(filtered) != 1 || filtered[0].Category != core.Food {
		t.Fatalf("filter result: %+v", filtered)
	}
}
