// Package services orchestrates ledger commands across the in-memory state,
// the persistence repository and the AMQP event bus.
package services

import (
	"context"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/ledger"
)

// Repository is the persistence surface the service writes through to.
// Both the SQLite and the Postgres repositories satisfy it.
type Repository interface {
	LoadSnapshot(ctx context.Context) (core.Snapshot, map[string]core.Money, error)
	SaveAccount(ctx context.Context, acc core.Account) error
	DeleteAccount(ctx context.Context, id string) error
	SaveTransaction(ctx context.Context, tx core.Transaction) error
	DeleteTransaction(ctx context.Context, id string) error
	SaveBudget(ctx context.Context, category string, budget core.Money) error
	Clear(ctx context.Context) error
	Close() error
}

// EventPublisher publishes ledger change events. Nil-able; a missing
// publisher only disables the downstream sync mirror.
type EventPublisher interface {
	PublishEvent(ctx context.Context, event *amqp.LedgerEvent) error
	Close() error
}

// LedgerService keeps the in-memory ledger authoritative and mirrors every
// accepted command to the repository. Repository failures on writes are
// logged, not returned: the command already committed in memory and state
// converges on the next save of the same row.
type LedgerService struct {
	ledger    *ledger.Ledger
	repo      Repository
	publisher EventPublisher
}

func NewLedgerService(l *ledger.Ledger, repo Repository, publisher EventPublisher) *LedgerService {
	return &LedgerService{
		ledger:    l,
		repo:      repo,
		publisher: publisher,
	}
}

// Load restores persisted state into the ledger. Called once at startup.
func (s *LedgerService) Load(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	snap, budgets, err := s.repo.LoadSnapshot(ctx)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}
	s.ledger.Restore(snap, budgets)
	slog.InfoContext(ctx, "Restored ledger state",
		"accounts", len(snap.Accounts),
		"transactions", len(snap.Transactions),
		"budgets", len(budgets))
	return nil
}

func (s *LedgerService) CreateAccount(ctx context.Context, name string, initial core.Money) (core.Account, error) {
	acc, err := s.ledger.AddAccount(name, initial)
	if err != nil {
		return core.Account{}, err
	}
	s.persistAccount(ctx, acc)
	return acc, nil
}

func (s *LedgerService) UpdateAccount(ctx context.Context, id, name string, initial core.Money) (core.Account, error) {
	acc, err := s.ledger.EditAccount(id, name, initial)
	if err != nil {
		return core.Account{}, err
	}
	s.persistAccount(ctx, acc)
	return acc, nil
}

func (s *LedgerService) DeleteAccount(ctx context.Context, id string) error {
	cascaded, err := s.ledger.DeleteAccount(id)
	if err != nil {
		return err
	}
	if s.repo != nil {
		// The schema cascades, transactions go with the account row.
		if err := s.repo.DeleteAccount(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to persist account delete", "account_id", id, "error", err)
		}
	}
	// The SQL cascade emits no events, so every purged transaction gets its
	// own delete event here; downstream mirrors drop the rows one by one.
	for _, txID := range cascaded {
		s.publish(ctx, amqp.EventTransactionDeleted, txID)
	}
	s.publish(ctx, amqp.EventAccountDeleted, id)
	return nil
}

func (s *LedgerService) CreateTransaction(ctx context.Context, tx core.Transaction) (core.Transaction, error) {
	created, err := s.ledger.AddTransaction(tx)
	if err != nil {
		return core.Transaction{}, err
	}
	s.persistTransaction(ctx, created)
	s.publish(ctx, amqp.EventTransactionCreated, created.ID)
	return created, nil
}

func (s *LedgerService) UpdateTransaction(ctx context.Context, id string, updated core.Transaction) (core.Transaction, error) {
	old, tx, err := s.ledger.EditTransaction(id, updated)
	if err != nil {
		return core.Transaction{}, err
	}
	s.persistTransaction(ctx, tx)
	if old.AccountID != tx.AccountID {
		s.resaveAccount(ctx, old.AccountID)
	}
	s.publish(ctx, amqp.EventTransactionUpdated, tx.ID)
	return tx, nil
}

func (s *LedgerService) DeleteTransaction(ctx context.Context, id string) error {
	old, err := s.lookupTransaction(id)
	if err != nil {
		return err
	}
	if err := s.ledger.DeleteTransaction(id); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.DeleteTransaction(ctx, id); err != nil {
			slog.ErrorContext(ctx, "Failed to persist transaction delete", "transaction_id", id, "error", err)
		}
	}
	s.resaveAccount(ctx, old.AccountID)
	s.publish(ctx, amqp.EventTransactionDeleted, id)
	return nil
}

func (s *LedgerService) SetBudget(ctx context.Context, category string, budget core.Money) error {
	if err := s.ledger.SetCategoryBudget(category, budget); err != nil {
		return err
	}
	if s.repo != nil {
		if err := s.repo.SaveBudget(ctx, category, budget); err != nil {
			slog.ErrorContext(ctx, "Failed to persist budget", "category", category, "error", err)
		}
	}
	return nil
}

func (s *LedgerService) AddCategory(typ core.TransactionType, cat core.Category) error {
	return s.ledger.AddCategory(typ, cat)
}

// ClearAll wipes both the in-memory state and the persisted rows.
func (s *LedgerService) ClearAll(ctx context.Context) error {
	s.ledger.ClearAll()
	if s.repo != nil {
		if err := s.repo.Clear(ctx); err != nil {
			return fmt.Errorf("clear repository: %w", err)
		}
	}
	return nil
}

// Query passthroughs.

func (s *LedgerService) Account(id string) (core.Account, error) { return s.ledger.Account(id) }
func (s *LedgerService) Accounts() []core.Account                { return s.ledger.Accounts() }

func (s *LedgerService) Transactions(match func(core.Transaction) bool) []core.Transaction {
	return s.ledger.Transactions(match)
}

func (s *LedgerService) Categories(typ core.TransactionType) []core.Category {
	return s.ledger.Categories(typ)
}

func (s *LedgerService) Snapshot() core.Snapshot { return s.ledger.Snapshot() }

func (s *LedgerService) lookupTransaction(id string) (core.Transaction, error) {
	txs := s.ledger.Transactions(func(tx core.Transaction) bool { return tx.ID == id })
	if len(txs) == 0 {
		return core.Transaction{}, core.ErrTransactionNotFound
	}
	return txs[0], nil
}

func (s *LedgerService) persistAccount(ctx context.Context, acc core.Account) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveAccount(ctx, acc); err != nil {
		slog.ErrorContext(ctx, "Failed to persist account", "account_id", acc.ID, "error", err)
	}
}

func (s *LedgerService) resaveAccount(ctx context.Context, id string) {
	acc, err := s.ledger.Account(id)
	if err != nil {
		return
	}
	s.persistAccount(ctx, acc)
}

// persistTransaction saves the transaction and the new balance of its account.
func (s *LedgerService) persistTransaction(ctx context.Context, tx core.Transaction) {
	if s.repo == nil {
		return
	}
	if err := s.repo.SaveTransaction(ctx, tx); err != nil {
		slog.ErrorContext(ctx, "Failed to persist transaction", "transaction_id", tx.ID, "error", err)
	}
	s.resaveAccount(ctx, tx.AccountID)
}

func (s *LedgerService) publish(ctx context.Context, kind, entityID string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishEvent(ctx, amqp.NewLedgerEvent(kind, entityID)); err != nil {
		// Non-fatal, the command already committed locally.
		slog.ErrorContext(ctx, "Failed to publish ledger event",
			"kind", kind, "entity_id", entityID, "error", err)
	}
}

// Close releases the repository and the publisher.
func (s *LedgerService) Close() error {
	var errs []error

	if s.repo != nil {
		if err := s.repo.Close(); err != nil {
			errs = append(errs, fmt.Errorf("repository: %w", err))
		}
	}
	if s.publisher != nil {
		if err := s.publisher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close ledger service: %v", errs)
	}
	return nil
}
