package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income     TransactionType = "income"
	Expense    TransactionType = "expense"
	Investment TransactionType = "investment"

	// Extended variants, accepted only when the ledger is configured for them.
	Transfer   TransactionType = "transfer"
	Lended     TransactionType = "lended"
	Receivable TransactionType = "receivable"
)

const (
	StatusCleared    = "Cleared"
	StatusUncleared  = "Uncleared"
	StatusReconciled = "Reconciled"
)

type (
	TransactionType string

	// Account is a named money container with a running balance.
	// Balance must always equal InitialBalance plus the signed amounts of
	// every transaction referencing the account.
	Account struct {
		ID             string
		Name           string
		InitialBalance Money
		Balance        Money
	}

	// Transaction is a single recorded money movement against one account.
	// Amount is always positive; direction comes from Type.
	Transaction struct {
		ID          string
		Type        TransactionType
		Amount      Money
		Date        time.Time
		Category    string
		Description string
		Note        string
		AccountID   string

		// Descriptive metadata, no invariants.
		Payee       string
		PaymentType string
		Status      string
		Location    string
		Photo       string
	}

	// Category describes a catalog entry. Budget is a monthly spending
	// ceiling and is meaningful for expense categories only.
	Category struct {
		Value  string
		Label  string
		Icon   string
		Budget Money
	}

	// Snapshot is a read-only copy of the full ledger state, used for
	// aggregation and export.
	Snapshot struct {
		Accounts     []Account
		Transactions []Transaction
	}
)

var (
	ErrNameTooShort        = errors.New("account name must be at least 2 characters")
	ErrNegativeBalance     = errors.New("initial balance cannot be negative")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrUnknownType         = errors.New("unknown transaction type")
	ErrEmptyCategory       = errors.New("empty category")
	ErrZeroDate            = errors.New("date cannot be zero")
	ErrMissingAccountID    = errors.New("missing account id")
	ErrAccountNotFound     = errors.New("account not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrNegativeBudget      = errors.New("budget cannot be negative")

	// ErrInvariantViolation marks internal corruption, e.g. a balance delta
	// posted against an account that no longer exists. It should never
	// surface in correct usage.
	ErrInvariantViolation = errors.New("ledger invariant violation")
)

// BaseTypes is the canonical transaction type set.
var BaseTypes = []TransactionType{Income, Expense, Investment}

// ExtendedTypes is the superset accepted when extended variants are enabled.
var ExtendedTypes = []TransactionType{Income, Expense, Investment, Transfer, Lended, Receivable}

// Valid reports whether t belongs to the canonical type set.
func (t TransactionType) Valid() bool {
	switch t {
	case Income, Expense, Investment:
		return true
	default:
		return false
	}
}

// ValidExtended reports whether t belongs to the extended type set.
func (t TransactionType) ValidExtended() bool {
	if t.Valid() {
		return true
	}
	switch t {
	case Transfer, Lended, Receivable:
		return true
	default:
		return false
	}
}

func (a Account) Validate() error {
	if len(strings.TrimSpace(a.Name)) < 2 {
		return ErrNameTooShort
	}
	if a.InitialBalance.Cents < 0 {
		return ErrNegativeBalance
	}
	return nil
}

func (tx Transaction) Validate() error {
	if err := tx.Amount.Validate(); err != nil {
		return err
	}
	if tx.Date.IsZero() {
		return ErrZeroDate
	}
	if strings.TrimSpace(tx.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(tx.AccountID) == "" {
		return ErrMissingAccountID
	}
	return nil
}

// SignedAmount applies direction to the stored amount: income credits the
// account, every other type debits it. Investment deliberately debits the
// source account the same way an expense does.
func (tx Transaction) SignedAmount() Money {
	if tx.Type == Income {
		return tx.Amount
	}
	return Money{Cents: -tx.Amount.Cents}
}
