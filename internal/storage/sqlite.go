// Package storage persists ledger state to SQLite. The in-memory ledger
// remains the source of truth at runtime; the repository is a write-through
// mirror that is loaded back on startup.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fintrack/internal/core"

	_ "modernc.org/sqlite"
)

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if dir := filepath.Dir(dbPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create db directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// LoadSnapshot reads the full persisted state: accounts, transactions
// (newest first) and budgets keyed by category value.
func (r *SQLiteRepository) LoadSnapshot(ctx context.Context) (core.Snapshot, map[string]core.Money, error) {
	var snap core.Snapshot

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, initial_balance_cents, balance_cents FROM accounts ORDER BY created_at`)
	if err != nil {
		return snap, nil, fmt.Errorf("query accounts: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var acc core.Account
		if err := rows.Scan(&acc.ID, &acc.Name, &acc.InitialBalance.Cents, &acc.Balance.Cents); err != nil {
			return snap, nil, fmt.Errorf("scan account: %w", err)
		}
		snap.Accounts = append(snap.Accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return snap, nil, fmt.Errorf("iterate accounts: %w", err)
	}

	txRows, err := r.db.QueryContext(ctx,
		`SELECT id, type, amount_cents, date, category, description, note, account_id,
		        payee, payment_type, status, location, photo
		 FROM transactions ORDER BY date DESC, created_at DESC`)
	if err != nil {
		return snap, nil, fmt.Errorf("query transactions: %w", err)
	}
	defer txRows.Close()
	for txRows.Next() {
		tx, err := scanTransaction(txRows)
		if err != nil {
			return snap, nil, err
		}
		snap.Transactions = append(snap.Transactions, tx)
	}
	if err := txRows.Err(); err != nil {
		return snap, nil, fmt.Errorf("iterate transactions: %w", err)
	}

	budgets := make(map[string]core.Money)
	bRows, err := r.db.QueryContext(ctx, `SELECT category, budget_cents FROM budgets`)
	if err != nil {
		return snap, nil, fmt.Errorf("query budgets: %w", err)
	}
	defer bRows.Close()
	for bRows.Next() {
		var category string
		var cents int64
		if err := bRows.Scan(&category, &cents); err != nil {
			return snap, nil, fmt.Errorf("scan budget: %w", err)
		}
		budgets[category] = core.Money{Cents: cents}
	}
	if err := bRows.Err(); err != nil {
		return snap, nil, fmt.Errorf("iterate budgets: %w", err)
	}

	return snap, budgets, nil
}

// SaveAccount upserts an account row.
func (r *SQLiteRepository) SaveAccount(ctx context.Context, acc core.Account) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (id, name, initial_balance_cents, balance_cents)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   initial_balance_cents = excluded.initial_balance_cents,
		   balance_cents = excluded.balance_cents`,
		acc.ID, acc.Name, acc.InitialBalance.Cents, acc.Balance.Cents)
	if err != nil {
		return fmt.Errorf("save account %s: %w", acc.ID, err)
	}
	return nil
}

// DeleteAccount removes the account; the schema cascades to its transactions.
func (r *SQLiteRepository) DeleteAccount(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("delete account %s: %w", id, core.ErrAccountNotFound)
	}
	return nil
}

// SaveTransaction upserts a transaction row.
func (r *SQLiteRepository) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (id, type, amount_cents, date, category, description, note,
		                           account_id, payee, payment_type, status, location, photo)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   type = excluded.type,
		   amount_cents = excluded.amount_cents,
		   date = excluded.date,
		   category = excluded.category,
		   description = excluded.description,
		   note = excluded.note,
		   account_id = excluded.account_id,
		   payee = excluded.payee,
		   payment_type = excluded.payment_type,
		   status = excluded.status,
		   location = excluded.location,
		   photo = excluded.photo`,
		tx.ID, string(tx.Type), tx.Amount.Cents, tx.Date.UTC(), tx.Category, tx.Description, tx.Note,
		tx.AccountID, tx.Payee, tx.PaymentType, tx.Status, tx.Location, tx.Photo)
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) DeleteTransaction(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

// Transaction fetches a single transaction row, used by the sync worker.
func (r *SQLiteRepository) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, type, amount_cents, date, category, description, note, account_id,
		        payee, payment_type, status, location, photo
		 FROM transactions WHERE id = ?`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrTransactionNotFound)
	}
	return tx, err
}

// SaveBudget upserts the budget for a category.
func (r *SQLiteRepository) SaveBudget(ctx context.Context, category string, budget core.Money) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO budgets (category, budget_cents) VALUES (?, ?)
		 ON CONFLICT(category) DO UPDATE SET budget_cents = excluded.budget_cents`,
		category, budget.Cents)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", category, err)
	}
	return nil
}

// Clear empties all tables.
func (r *SQLiteRepository) Clear(ctx context.Context) error {
	for _, table := range []string{"transactions", "accounts", "budgets"} {
		if _, err := r.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (core.Transaction, error) {
	var tx core.Transaction
	var typ string
	var date time.Time
	err := row.Scan(&tx.ID, &typ, &tx.Amount.Cents, &date, &tx.Category, &tx.Description, &tx.Note,
		&tx.AccountID, &tx.Payee, &tx.PaymentType, &tx.Status, &tx.Location, &tx.Photo)
	if err != nil {
		return core.Transaction{}, err
	}
	tx.Type = core.TransactionType(typ)
	tx.Date = date
	return tx, nil
}
