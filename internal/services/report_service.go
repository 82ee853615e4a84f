package services

import (
	"fmt"
	"time"

	"compta/internal/cache"
	"compta/internal/core"
	"compta/internal/ledger"
)

// ReportService computes the derived views: direction totals, monthly
// budget overviews and expense shares. Overviews are memoized in an LRU
// that the ledger service purges on every mutation.
type ReportService struct {
	ledger    *ledger.Ledger
	overviews *cache.LRU[core.MonthOverview]
}

func NewReportService(l *ledger.Ledger) *ReportService {
	return &ReportService{
		ledger:    l,
		overviews: cache.New[core.MonthOverview](24, time.Hour),
	}
}

// Totals sums all amounts partitioned by direction.
func (r *ReportService) Totals() core.Totals {
	return ledger.TotalsByDirection(r.ledger.Transactions())
}

// MonthOverview returns the month's debit spend and one budget line per
// budgetable category, in display order.
func (r *ReportService) MonthOverview(year, month int) core.MonthOverview {
	key := fmt.Sprintf("overview:%d-%02d", year, month)
	if ov, ok := r.overviews.Get(key); ok {
		return ov
	}

	txs := r.ledger.Transactions()
	spend := ledger.MonthlySpendByCategory(txs, year, month)
	budgets := r.ledger.Budgets()

	ov := core.MonthOverview{Year: year, Month: month}
	for _, amount := range spend {
		ov.Spent = ov.Spent.Add(amount)
	}
	for _, cat := range core.BudgetableCategories() {
		spent := spend[cat]
		ceiling := budgets[cat]
		ov.Budgets = append(ov.Budgets, core.BudgetLine{
			Category: cat,
			Spent:    spent,
			Ceiling:  ceiling,
			Status:   ledger.BudgetStatus(spent, ceiling),
		})
	}

	r.overviews.Set(key, ov)
	return ov
}

// ExpenseShares returns all-time debit totals per category, largest first.
func (r *ReportService) ExpenseShares() []core.CategoryAmount {
	return ledger.ExpenseSharesByCategory(r.ledger.Transactions())
}

// Filter lists transactions matching the criteria in insertion order.
func (r *ReportService) Filter(c ledger.Criteria) []core.Transaction {
	return ledger.Filter(r.ledger.Transactions(), c)
}

// Invalidate drops memoized overviews after a ledger mutation.
func (r *ReportService) Invalidate() {
	r.overviews.Purge()
}
