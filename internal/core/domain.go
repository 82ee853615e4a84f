package core

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type (
	// Direction tells whether a transaction decreases (Debit) or increases
	// (Credit) an account balance. The value is the stable display label and
	// is what gets persisted.
	Direction string

	// Category classifies a transaction for budgeting and reports. As with
	// Direction, the value is the stable display label.
	Category string

	Date struct {
		time.Time
	}

	// Transaction is a single ledger entry. Amount is always a positive
	// magnitude; Direction carries the sign effect on balances.
	Transaction struct {
		ID          int64
		Date        Date
		Account     string
		Direction   Direction
		Category    Category
		Description string
		Amount      decimal.Decimal
	}
)

const (
	Debit  Direction = "Débit"
	Credit Direction = "Crédit"
)

const (
	General   Category = "Général"
	Food      Category = "Nourriture"
	Transport Category = "Transport"
	Leisure   Category = "Loisirs"
	Salary    Category = "Salaire"
	Other     Category = "Autre"
)

// DefaultAccounts are the balance-map keys seeded on first run.
var DefaultAccounts = []string{"Cash", "Bank", "Savings"}

var (
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrNegativeBudget   = errors.New("negative budget")
	ErrBudgetNotAllowed = errors.New("category cannot be budgeted")
	ErrUnknownAccount   = errors.New("unknown account")
	ErrNotFound         = errors.New("transaction not found")
	ErrUnknownCategory  = errors.New("unknown category")
	ErrUnknownDirection = errors.New("unknown direction")
)

// Directions returns both directions in display order.
func Directions() []Direction {
	return []Direction{Debit, Credit}
}

// Categories returns all categories in display order.
func Categories() []Category {
	return []Category{General, Food, Transport, Leisure, Salary, Other}
}

// BudgetableCategories returns the categories a budget ceiling may be set
// for. Salary is income and is excluded.
func BudgetableCategories() []Category {
	out := make([]Category, 0, len(Categories())-1)
	for _, c := range Categories() {
		if c != Salary {
			out = append(out, c)
		}
	}
	return out
}

func (d Direction) Label() string {
	return string(d)
}

// Reverse returns the opposite direction, used to undo a balance effect.
func (d Direction) Reverse() Direction {
	if d == Debit {
		return Credit
	}
	return Debit
}

func (c Category) Label() string {
	return string(c)
}

// Budgetable reports whether a budget ceiling may be set for the category.
func (c Category) Budgetable() bool {
	return c != Salary
}

// ParseDirectionLabel resolves a display label back to a Direction.
// Matching is case-insensitive.
func ParseDirectionLabel(label string) (Direction, error) {
	for _, d := range Directions() {
		if strings.EqualFold(strings.TrimSpace(label), string(d)) {
			return d, nil
		}
	}
	return "", ErrUnknownDirection
}

// ParseCategoryLabel resolves a display label back to a Category.
// Matching is case-insensitive.
func ParseCategoryLabel(label string) (Category, error) {
	for _, c := range Categories() {
		if strings.EqualFold(strings.TrimSpace(label), string(c)) {
			return c, nil
		}
	}
	return "", ErrUnknownCategory
}

// NewDate creates a Date from year, month, day.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day.
func Today() Date {
	now := time.Now()
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// Day returns the day of the month
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year
func (d Date) Year() int {
	return d.Time.Year()
}

// Validate checks the entity-level rules: a trimmed non-empty description
// and a strictly positive amount. Referential checks against the account
// map belong to the ledger store.
func (t Transaction) Validate() error {
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if t.Amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	return nil
}
