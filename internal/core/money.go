// Package core defines the ledger's domain types.
//
// This file contains parsing and formatting of monetary amounts. Amounts
// are decimal values, never floats, so they round-trip losslessly through
// persistence and CSV export.
package core

import (
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ParseAmount converts user input into a positive decimal amount.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators.
// Signs are rejected: stored amounts are always positive magnitudes and
// the transaction direction carries the sign effect.
//
// Examples:
//
//	ParseAmount("12.34") -> 12.34, nil
//	ParseAmount("12,34") -> 12.34, nil
//	ParseAmount("-5")    -> 0, ErrInvalidAmount
//	ParseAmount("0")     -> 0, ErrInvalidAmount
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	// Normalize decimal comma to dot
	s = strings.ReplaceAll(s, ",", ".")
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrInvalidAmount
	}
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '.' {
			return decimal.Zero, ErrInvalidAmount
		}
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if d.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatCurrency renders an amount for display, two decimal places with a
// trailing euro sign.
func FormatCurrency(d decimal.Decimal) string {
	return d.StringFixed(2) + " €"
}
