package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category.
type CategoryAmount struct {
	Category Category
	Amount   decimal.Decimal
}

// Totals is the sum of amounts partitioned by direction.
type Totals struct {
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// BudgetStatus is the three-way classification driving report highlighting.
type BudgetStatus int

const (
	// BudgetNeutral covers a zero budget, or spend between 80% and 100%
	// of the ceiling.
	BudgetNeutral BudgetStatus = iota
	// BudgetOK means a ceiling is set and spend is at or below 80% of it.
	BudgetOK
	// BudgetExceeded means a ceiling is set and spend is above it.
	BudgetExceeded
)

func (s BudgetStatus) String() string {
	switch s {
	case BudgetOK:
		return "ok"
	case BudgetExceeded:
		return "exceeded"
	default:
		return "neutral"
	}
}

// BudgetLine is one category's spend against its ceiling for a month.
type BudgetLine struct {
	Category Category
	Spent    decimal.Decimal
	Ceiling  decimal.Decimal
	Status   BudgetStatus
}

// MonthOverview is a compact budgeting summary for a specific year+month.
type MonthOverview struct {
	Year    int
	Month   int // 1-12
	Spent   decimal.Decimal
	Budgets []BudgetLine
}
