package ledger

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"compta/internal/core"
)

// Criteria narrows a transaction listing. Nil direction/category mean
// "all"; an empty search string matches everything. Predicates compose
// with logical AND.
type Criteria struct {
	Direction *core.Direction
	Category  *core.Category
	Search    string
}

// Filter returns the transactions matching the criteria, preserving the
// insertion order of the input. The search term matches case-insensitive
// substrings of the description, the account name or the category label.
func Filter(txs []core.Transaction, c Criteria) []core.Transaction {
	search := strings.ToLower(strings.TrimSpace(c.Search))

	var out []core.Transaction
	for _, t := range txs {
		if c.Direction != nil && t.Direction != *c.Direction {
			continue
		}
		if c.Category != nil && t.Category != *c.Category {
			continue
		}
		if search != "" && !matchesSearch(t, search) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchesSearch(t core.Transaction, search string) bool {
	return strings.Contains(strings.ToLower(t.Description), search) ||
		strings.Contains(strings.ToLower(t.Account), search) ||
		strings.Contains(strings.ToLower(t.Category.Label()), search)
}

// TotalsByDirection sums amounts partitioned by direction.
func TotalsByDirection(txs []core.Transaction) core.Totals {
	totals := core.Totals{Debit: decimal.Zero, Credit: decimal.Zero}
	for _, t := range txs {
		if t.Direction == core.Debit {
			totals.Debit = totals.Debit.Add(t.Amount)
		} else {
			totals.Credit = totals.Credit.Add(t.Amount)
		}
	}
	return totals
}

// MonthlySpendByCategory sums debit amounts dated in the given year and
// month, grouped by category. Categories without a matching debit are
// absent from the result.
func MonthlySpendByCategory(txs []core.Transaction, year, month int) map[core.Category]decimal.Decimal {
	out := make(map[core.Category]decimal.Decimal)
	for _, t := range txs {
		if t.Direction != core.Debit {
			continue
		}
		if t.Date.Year() != year || t.Date.Month() != month {
			continue
		}
		out[t.Category] = out[t.Category].Add(t.Amount)
	}
	return out
}

// BudgetStatus classifies a month's spend against a budget ceiling.
// Exceeded when a ceiling is set and spend is above it; OK when a ceiling
// is set and spend is at or below 80% of it; Neutral otherwise (no ceiling,
// or spend between 80% and 100% of it).
func BudgetStatus(spent, budgeted decimal.Decimal) core.BudgetStatus {
	if budgeted.Sign() <= 0 {
		return core.BudgetNeutral
	}
	if spent.Cmp(budgeted) > 0 {
		return core.BudgetExceeded
	}
	// spent <= 0.8*budgeted, compared exactly as 5*spent <= 4*budgeted
	five := decimal.NewFromInt(5)
	four := decimal.NewFromInt(4)
	if spent.Mul(five).Cmp(budgeted.Mul(four)) <= 0 {
		return core.BudgetOK
	}
	return core.BudgetNeutral
}

// ExpenseSharesByCategory totals debit amounts per category across all
// time, sorted descending by value so chart slice ordering is stable.
// Ties keep encounter order.
func ExpenseSharesByCategory(txs []core.Transaction) []core.CategoryAmount {
	totals := make(map[core.Category]decimal.Decimal)
	var order []core.Category
	for _, t := range txs {
		if t.Direction != core.Debit {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] = totals[t.Category].Add(t.Amount)
	}

	out := make([]core.CategoryAmount, 0, len(order))
	for _, c := range order {
		out = append(out, core.CategoryAmount{Category: c, Amount: totals[c]})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cmp(out[j].Amount) > 0
	})
	return out
}
