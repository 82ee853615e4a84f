package core

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func TestDirectionReverse(t *testing.T) {
	if Debit.Reverse() != Credit {
		t.Fatalf("expected Debit to reverse to Credit")
	}
	if Credit.Reverse() != Debit {
		t.Fatalf("expected Credit to reverse to Debit")
	}
	if Debit.Reverse().Reverse() != Debit {
		t.Fatalf("double reverse should be identity")
	}
}

func TestParseDirectionLabel(t *testing.T) {
	cases := []struct {
		in   string
		want Direction
		ok   bool
	}{
		{"Débit", Debit, true},
		{"débit", Debit, true},
		{"CRÉDIT", Credit, true},
		{" Crédit ", Credit, true},
		{"Transfer", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseDirectionLabel(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("case %d: %q expected %q, got %q (err=%v)", i, tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrUnknownDirection) {
			t.Fatalf("case %d: %q expected ErrUnknownDirection, got %v", i, tc.in, err)
		}
	}
}

func TestParseCategoryLabel(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"Nourriture", Food, true},
		{"nourriture", Food, true},
		{"SALAIRE", Salary, true},
		{"Général", General, true},
		{"Loisirs", Leisure, true},
		{"INVALIDCATEGORY", "", false},
		{"", "", false},
	}
	for i, tc := range cases {
		got, err := ParseCategoryLabel(tc.in)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("case %d: %q expected %q, got %q (err=%v)", i, tc.in, tc.want, got, err)
			}
		} else if !errors.Is(err, ErrUnknownCategory) {
			t.Fatalf("case %d: %q expected ErrUnknownCategory, got %v", i, tc.in, err)
		}
	}
}

func TestBudgetableCategories(t *testing.T) {
	for _, c := range BudgetableCategories() {
		if c == Salary {
			t.Fatalf("Salary must not be budgetable")
		}
	}
	if len(BudgetableCategories()) != len(Categories())-1 {
		t.Fatalf("expected all categories except Salary")
	}
	if Salary.Budgetable() {
		t.Fatalf("Salary.Budgetable() should be false")
	}
	if !Food.Budgetable() {
		t.Fatalf("Food.Budgetable() should be true")
	}
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Date:        NewDate(2025, 1, 1),
		Account:     "Bank",
		Direction:   Debit,
		Category:    Food,
		Description: "groceries",
		Amount:      decimal.NewFromInt(50),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	empty := good
	empty.Description = "   "
	if err := empty.Validate(); !errors.Is(err, ErrEmptyDescription) {
		t.Fatalf("expected ErrEmptyDescription, got %v", err)
	}

	zero := good
	zero.Amount = decimal.Zero
	if err := zero.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}

	negative := good
	negative.Amount = decimal.NewFromInt(-5)
	if err := negative.Validate(); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestDateParts(t *testing.T) {
	d := NewDate(2025, 7, 14)
	if d.Year() != 2025 || d.Month() != 7 || d.Day() != 14 {
		t.Fatalf("unexpected date parts: %d-%d-%d", d.Year(), d.Month(), d.Day())
	}
}
