// Package ledger implements the transaction/account state manager: a single
// synchronized owner of accounts, transactions, category catalogs and
// budgets. Every command is atomic; after each one the balance invariant
// holds: balance == initial balance + sum of signed amounts of all
// transactions referencing the account.
package ledger

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fintrack/internal/core"
)

// Options tunes ledger behaviour at construction time.
type Options struct {
	// ExtendedTypes accepts transfer/lended/receivable transaction types in
	// addition to the canonical income/expense/investment set.
	ExtendedTypes bool
}

// Ledger is the command side of the application: it owns all mutable state
// and keeps account balances consistent with the transaction history. A
// single mutex serializes commands so a transaction insert and its balance
// delta can never interleave with a concurrent account edit.
type Ledger struct {
	mu       sync.Mutex
	opts     Options
	accounts accountStore
	txs      transactionStore

	expenseCats []core.Category
	incomeCats  []core.Category
}

// New constructs a ledger seeded with the default category catalogs.
func New(opts Options) *Ledger {
	return &Ledger{
		opts:        opts,
		expenseCats: append([]core.Category(nil), DefaultExpenseCategories...),
		incomeCats:  append([]core.Category(nil), DefaultIncomeCategories...),
	}
}

// AddAccount creates an account with its balance initialized to the initial
// balance.
func (l *Ledger) AddAccount(name string, initialBalance core.Money) (core.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts.add(name, initialBalance)
}

// EditAccount updates name and initial balance, shifting the running balance
// by the initial-balance delta.
func (l *Ledger) EditAccount(id, name string, initialBalance core.Money) (core.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts.edit(id, name, initialBalance)
}

// DeleteAccount removes the account and purges every transaction referencing
// it. No orphaned transactions may exist afterwards. The IDs of the purged
// transactions are returned so callers can propagate per-row deletes to
// downstream mirrors.
func (l *Ledger) DeleteAccount(id string) ([]string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.accounts.delete(id); err != nil {
		return nil, err
	}
	removed := l.txs.deleteForAccount(id)
	slog.Debug("account deleted", "account_id", id, "transactions_removed", len(removed))
	return removed, nil
}

// AddTransaction validates the transaction, inserts it newest-first and posts
// the signed amount against the referenced account in the same step.
func (l *Ledger) AddTransaction(tx core.Transaction) (core.Transaction, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.validateTransaction(tx); err != nil {
		return core.Transaction{}, err
	}
	added := l.txs.add(tx)
	if err := l.accounts.applyDelta(added.AccountID, added.SignedAmount()); err != nil {
		// Cannot happen: existence was checked under the same lock.
		slog.Error("balance delta failed after insert", "transaction_id", added.ID, "error", err)
		return core.Transaction{}, err
	}
	return added, nil
}

// EditTransaction replaces a transaction, adjusting balances delta-style:
// the old signed amount is reversed on the old account and the new one is
// posted, which may target a different account. Both the replaced and the
// resulting transaction are returned from under the same lock, so callers
// can compare account references without racing a concurrent edit.
func (l *Ledger) EditTransaction(id string, updated core.Transaction) (old, now core.Transaction, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.validateTransaction(updated); err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	old, now, err = l.txs.edit(id, updated)
	if err != nil {
		return core.Transaction{}, core.Transaction{}, err
	}
	if err := l.accounts.applyDelta(old.AccountID, old.SignedAmount().Neg()); err != nil {
		slog.Error("failed to reverse old balance delta", "transaction_id", id, "error", err)
		return core.Transaction{}, core.Transaction{}, err
	}
	if err := l.accounts.applyDelta(now.AccountID, now.SignedAmount()); err != nil {
		slog.Error("failed to post new balance delta", "transaction_id", id, "error", err)
		return core.Transaction{}, core.Transaction{}, err
	}
	return old, now, nil
}

// DeleteTransaction removes a single transaction and reverses its balance
// effect.
func (l *Ledger) DeleteTransaction(id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	tx, err := l.txs.delete(id)
	if err != nil {
		return err
	}
	if err := l.accounts.applyDelta(tx.AccountID, tx.SignedAmount().Neg()); err != nil {
		slog.Error("failed to reverse balance delta", "transaction_id", id, "error", err)
		return err
	}
	return nil
}

// SetCategoryBudget sets the monthly spending ceiling on an expense catalog
// entry. Budgets are rejected for categories outside the expense catalog.
func (l *Ledger) SetCategoryBudget(value string, budget core.Money) error {
	if budget.Cents < 0 {
		return core.ErrNegativeBudget
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	for i := range l.expenseCats {
		if l.expenseCats[i].Value == value {
			l.expenseCats[i].Budget = budget
			return nil
		}
	}
	return fmt.Errorf("set budget for %q: %w", value, core.ErrCategoryNotFound)
}

// AddCategory appends a custom entry to the expense or income catalog. The
// value doubles as the label when no label is given.
func (l *Ledger) AddCategory(typ core.TransactionType, cat core.Category) error {
	if strings.TrimSpace(cat.Value) == "" {
		return core.ErrEmptyCategory
	}
	if cat.Label == "" {
		cat.Label = cat.Value
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	switch typ {
	case core.Expense:
		l.expenseCats = append(l.expenseCats, cat)
	case core.Income:
		l.incomeCats = append(l.incomeCats, cat)
	default:
		return fmt.Errorf("catalog for %q: %w", typ, core.ErrUnknownType)
	}
	return nil
}

// ClearAll empties accounts, transactions and budgets. Catalogs are reset to
// their defaults.
func (l *Ledger) ClearAll() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts.clear()
	l.txs.clear()
	l.expenseCats = append([]core.Category(nil), DefaultExpenseCategories...)
	l.incomeCats = append([]core.Category(nil), DefaultIncomeCategories...)
}

// Account returns a single account by id.
func (l *Ledger) Account(id string) (core.Account, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	acc, ok := l.accounts.get(id)
	if !ok {
		return core.Account{}, fmt.Errorf("account %s: %w", id, core.ErrAccountNotFound)
	}
	return acc, nil
}

// Accounts returns a copy of all accounts in creation order.
func (l *Ledger) Accounts() []core.Account {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.accounts.list()
}

// Transactions returns transactions newest-first, optionally filtered by an
// arbitrary predicate. The returned slice is a copy; callers may not corrupt
// ledger state through it.
func (l *Ledger) Transactions(match func(core.Transaction) bool) []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.txs.list(match)
}

// Categories returns a copy of the catalog for the given type. Only the
// expense and income catalogs exist.
func (l *Ledger) Categories(typ core.TransactionType) []core.Category {
	l.mu.Lock()
	defer l.mu.Unlock()
	var src []core.Category
	switch typ {
	case core.Income:
		src = l.incomeCats
	default:
		src = l.expenseCats
	}
	out := make([]core.Category, len(src))
	copy(out, src)
	return out
}

// Snapshot returns a deep copy of the full ledger state for aggregation and
// export.
func (l *Ledger) Snapshot() core.Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return core.Snapshot{
		Accounts:     l.accounts.list(),
		Transactions: l.txs.list(nil),
	}
}

// Restore replaces the ledger state wholesale, used when loading a persisted
// snapshot at startup. Balances are taken as stored; the invariant is assumed
// to have held when the snapshot was written.
func (l *Ledger) Restore(snap core.Snapshot, budgets map[string]core.Money) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.accounts.accounts = append([]core.Account(nil), snap.Accounts...)
	l.txs.txs = append([]core.Transaction(nil), snap.Transactions...)
	l.txs.resort()
	for i := range l.expenseCats {
		if b, ok := budgets[l.expenseCats[i].Value]; ok {
			l.expenseCats[i].Budget = b
		}
	}
}

func (l *Ledger) validateTransaction(tx core.Transaction) error {
	valid := tx.Type.Valid()
	if l.opts.ExtendedTypes {
		valid = tx.Type.ValidExtended()
	}
	if !valid {
		return fmt.Errorf("type %q: %w", tx.Type, core.ErrUnknownType)
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if !l.accounts.exists(tx.AccountID) {
		return fmt.Errorf("transaction account %s: %w", tx.AccountID, core.ErrAccountNotFound)
	}
	return nil
}
