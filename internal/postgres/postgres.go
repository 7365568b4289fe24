// Package postgres provides a PostgreSQL-backed ledger repository.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"fintrack/internal/core"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	initial_balance_cents BIGINT NOT NULL DEFAULT 0,
	balance_cents BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS transactions (
	id TEXT PRIMARY KEY,
	type TEXT NOT NULL,
	amount_cents BIGINT NOT NULL,
	date TIMESTAMPTZ NOT NULL,
	category TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	note TEXT NOT NULL DEFAULT '',
	account_id TEXT NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
	payee TEXT NOT NULL DEFAULT '',
	payment_type TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	location TEXT NOT NULL DEFAULT '',
	photo TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_transactions_account_id ON transactions(account_id);
CREATE INDEX IF NOT EXISTS idx_transactions_date ON transactions(date);

CREATE TABLE IF NOT EXISTS budgets (
	category TEXT PRIMARY KEY,
	budget_cents BIGINT NOT NULL DEFAULT 0
);
`

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(ctx context.Context, url string) (*Repository, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Repository{pool: pool}, nil
}

func (r *Repository) Close() error {
	r.pool.Close()
	return nil
}

func (r *Repository) LoadSnapshot(ctx context.Context) (core.Snapshot, map[string]core.Money, error) {
	var snap core.Snapshot

	rows, err := r.pool.Query(ctx,
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

	txRows, err := r.pool.Query(ctx,
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
	bRows, err := r.pool.Query(ctx, `SELECT category, budget_cents FROM budgets`)
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

func (r *Repository) SaveAccount(ctx context.Context, acc core.Account) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO accounts (id, name, initial_balance_cents, balance_cents)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET
		   name = EXCLUDED.name,
		   initial_balance_cents = EXCLUDED.initial_balance_cents,
		   balance_cents = EXCLUDED.balance_cents`,
		acc.ID, acc.Name, acc.InitialBalance.Cents, acc.Balance.Cents)
	if err != nil {
		return fmt.Errorf("save account %s: %w", acc.ID, err)
	}
	return nil
}

func (r *Repository) DeleteAccount(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM accounts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete account %s: %w", id, core.ErrAccountNotFound)
	}
	return nil
}

func (r *Repository) SaveTransaction(ctx context.Context, tx core.Transaction) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO transactions (id, type, amount_cents, date, category, description, note,
		                           account_id, payee, payment_type, status, location, photo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO UPDATE SET
		   type = EXCLUDED.type,
		   amount_cents = EXCLUDED.amount_cents,
		   date = EXCLUDED.date,
		   category = EXCLUDED.category,
		   description = EXCLUDED.description,
		   note = EXCLUDED.note,
		   account_id = EXCLUDED.account_id,
		   payee = EXCLUDED.payee,
		   payment_type = EXCLUDED.payment_type,
		   status = EXCLUDED.status,
		   location = EXCLUDED.location,
		   photo = EXCLUDED.photo`,
		tx.ID, string(tx.Type), tx.Amount.Cents, tx.Date.UTC(), tx.Category, tx.Description, tx.Note,
		tx.AccountID, tx.Payee, tx.PaymentType, tx.Status, tx.Location, tx.Photo)
	if err != nil {
		return fmt.Errorf("save transaction %s: %w", tx.ID, err)
	}
	return nil
}

func (r *Repository) DeleteTransaction(ctx context.Context, id string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	return nil
}

func (r *Repository) Transaction(ctx context.Context, id string) (core.Transaction, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT id, type, amount_cents, date, category, description, note, account_id,
		        payee, payment_type, status, location, photo
		 FROM transactions WHERE id = $1`, id)
	tx, err := scanTransaction(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, fmt.Errorf("transaction %s: %w", id, core.ErrTransactionNotFound)
	}
	return tx, err
}

func (r *Repository) SaveBudget(ctx context.Context, category string, budget core.Money) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO budgets (category, budget_cents) VALUES ($1, $2)
		 ON CONFLICT (category) DO UPDATE SET budget_cents = EXCLUDED.budget_cents`,
		category, budget.Cents)
	if err != nil {
		return fmt.Errorf("save budget %s: %w", category, err)
	}
	return nil
}

func (r *Repository) Clear(ctx context.Context) error {
	for _, table := range []string{"transactions", "accounts", "budgets"} {
		if _, err := r.pool.Exec(ctx, "DELETE FROM "+table); err != nil {
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
	tx.Date = date.UTC()
	return tx, nil
}
