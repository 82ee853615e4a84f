// Package ledger holds the authoritative in-memory ledger state and the
// pure query functions over snapshots of it.
package ledger

import (
	"sort"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"compta/internal/core"
)

// Snapshot is a deep copy of the ledger collections, used at persistence
// boundaries. Mutating a snapshot never affects the live ledger.
type Snapshot struct {
	Transactions []core.Transaction
	Balances     map[string]decimal.Decimal
	Budgets      map[core.Category]decimal.Decimal
}

// Ledger owns the transaction collection, the account balance map and the
// budget map, and keeps them consistent. All mutations go through its
// methods; a mutex serializes them so the revert-then-apply steps in Edit
// and Delete stay atomic even if callers ever overlap.
type Ledger struct {
	mu       sync.Mutex
	txs      []core.Transaction
	balances map[string]decimal.Decimal
	budgets  map[core.Category]decimal.Decimal
	nextID   int64
}

// New returns a ledger seeded with the default zero-balance accounts and a
// zero budget ceiling for every budgetable category.
func New() *Ledger {
	l := &Ledger{
		balances: make(map[string]decimal.Decimal),
		budgets:  make(map[core.Category]decimal.Decimal),
		nextID:   1,
	}
	for _, a := range core.DefaultAccounts {
		l.balances[a] = decimal.Zero
	}
	for _, c := range core.BudgetableCategories() {
		l.budgets[c] = decimal.Zero
	}
	return l
}

// Add validates the input, creates a transaction with a fresh id and
// today's date, appends it and applies its balance effect as one step.
func (l *Ledger) Add(account string, dir core.Direction, cat core.Category, description string, amount decimal.Decimal) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t := core.Transaction{
		Date:        core.Today(),
		Account:     account,
		Direction:   dir,
		Category:    cat,
		Description: strings.TrimSpace(description),
		Amount:      amount,
	}
	if err := t.Validate(); err != nil {
		return core.Transaction{}, err
	}
	if _, ok := l.balances[account]; !ok {
		return core.Transaction{}, core.ErrUnknownAccount
	}

	t.ID = l.nextID
	l.nextID++
	l.txs = append(l.txs, t)
	l.applyEffect(t.Account, t.Direction, t.Amount)
	return t, nil
}

// Edit replaces every field of the transaction except its id and original
// creation date. The old balance effect is reverted on the old account
// before the new effect is applied on the new account; edits may move a
// transaction between accounts, so the order is load-bearing.
func (l *Ledger) Edit(id int64, account string, dir core.Direction, cat core.Category, description string, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return core.ErrNotFound
	}

	next := core.Transaction{
		ID:          id,
		Date:        l.txs[i].Date,
		Account:     account,
		Direction:   dir,
		Category:    cat,
		Description: strings.TrimSpace(description),
		Amount:      amount,
	}
	if err := next.Validate(); err != nil {
		return err
	}
	if _, ok := l.balances[account]; !ok {
		return core.ErrUnknownAccount
	}

	old := l.txs[i]
	l.applyEffect(old.Account, old.Direction.Reverse(), old.Amount)
	l.txs[i] = next
	l.applyEffect(next.Account, next.Direction, next.Amount)
	return nil
}

// Delete reverts the transaction's balance effect and removes it.
func (l *Ledger) Delete(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	i := l.indexOf(id)
	if i < 0 {
		return core.ErrNotFound
	}
	t := l.txs[i]
	l.applyEffect(t.Account, t.Direction.Reverse(), t.Amount)
	l.txs = append(l.txs[:i], l.txs[i+1:]...)
	return nil
}

// SetBudget overwrites the ceiling for a budgetable category.
func (l *Ledger) SetBudget(cat core.Category, amount decimal.Decimal) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if amount.Sign() < 0 {
		return core.ErrNegativeBudget
	}
	if !cat.Budgetable() {
		return core.ErrBudgetNotAllowed
	}
	l.budgets[cat] = amount
	return nil
}

// AddAccount creates a zero-balance account if it does not exist yet.
func (l *Ledger) AddAccount(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	name = strings.TrimSpace(name)
	if name == "" {
		return core.ErrUnknownAccount
	}
	if _, ok := l.balances[name]; !ok {
		l.balances[name] = decimal.Zero
	}
	return nil
}

// GlobalBalance is the sum of all account balances.
func (l *Ledger) GlobalBalance() decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()

	total := decimal.Zero
	for _, b := range l.balances {
		total = total.Add(b)
	}
	return total
}

// Transactions returns a copy of the collection in insertion order.
func (l *Ledger) Transactions() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]core.Transaction(nil), l.txs...)
}

// Balances returns a copy of the account balance map.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyBalances(l.balances)
}

// Budgets returns a copy of the budget map.
func (l *Ledger) Budgets() map[core.Category]decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return copyBudgets(l.budgets)
}

// Budget returns the ceiling configured for a category (zero if none).
func (l *Ledger) Budget(cat core.Category) decimal.Decimal {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.budgets[cat]
}

// Accounts returns the account names in sorted order.
func (l *Ledger) Accounts() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	names := make([]string, 0, len(l.balances))
	for name := range l.balances {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Snapshot returns a deep copy of the ledger state.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()

	return Snapshot{
		Transactions: append([]core.Transaction(nil), l.txs...),
		Balances:     copyBalances(l.balances),
		Budgets:      copyBudgets(l.budgets),
	}
}

// Restore replaces the ledger state with a loaded snapshot. The next-id
// counter is recomputed as max(id)+1 rather than trusted from storage.
// Accounts referenced by transactions but missing from the balance map are
// created at zero; the names are returned so the caller can log them.
func (l *Ledger) Restore(s Snapshot) (createdAccounts []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.txs = append([]core.Transaction(nil), s.Transactions...)

	l.balances = make(map[string]decimal.Decimal, len(s.Balances))
	for name, b := range s.Balances {
		l.balances[name] = b
	}

	l.budgets = make(map[core.Category]decimal.Decimal)
	for _, c := range core.BudgetableCategories() {
		l.budgets[c] = decimal.Zero
	}
	for c, b := range s.Budgets {
		if c.Budgetable() {
			l.budgets[c] = b
		}
	}

	l.nextID = 1
	for _, t := range l.txs {
		if t.ID >= l.nextID {
			l.nextID = t.ID + 1
		}
		if _, ok := l.balances[t.Account]; !ok {
			l.balances[t.Account] = decimal.Zero
			createdAccounts = append(createdAccounts, t.Account)
		}
	}
	return createdAccounts
}

func (l *Ledger) indexOf(id int64) int {
	for i, t := range l.txs {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) applyEffect(account string, dir core.Direction, amount decimal.Decimal) {
	if dir == core.Debit {
		l.balances[account] = l.balances[account].Sub(amount)
	} else {
		l.balances[account] = l.balances[account].Add(amount)
	}
}

func copyBalances(in map[string]decimal.Decimal) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyBudgets(in map[core.Category]decimal.Decimal) map[core.Category]decimal.Decimal {
	out := make(map[core.Category]decimal.Decimal, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
