// Package worker consumes ledger events and mirrors transaction rows into
// the configured spreadsheet.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/sheets"
)

// TransactionSource is the read side the worker needs from the repository.
type TransactionSource interface {
	Transaction(ctx context.Context, id string) (core.Transaction, error)
}

type SyncWorker struct {
	source  TransactionSource
	writer  sheets.TransactionWriter
	deleter sheets.TransactionDeleter
}

func NewSyncWorker(source TransactionSource, writer sheets.TransactionWriter, deleter sheets.TransactionDeleter) *SyncWorker {
	return &SyncWorker{
		source:  source,
		writer:  writer,
		deleter: deleter,
	}
}

// HandleEvent dispatches a single ledger event. Returning an error causes
// the consumer to nack and requeue.
func (w *SyncWorker) HandleEvent(ctx context.Context, event *amqp.LedgerEvent) error {
	switch event.Kind {
	case amqp.EventTransactionCreated, amqp.EventTransactionUpdated:
		return w.mirrorTransaction(ctx, event.EntityID)
	case amqp.EventTransactionDeleted:
		return w.removeTransaction(ctx, event.EntityID)
	case amqp.EventAccountDeleted:
		// The service publishes a transaction.deleted event for every row
		// the account delete cascaded over, so the mirror rows are removed
		// by those events and there is nothing left to do here.
		slog.InfoContext(ctx, "Account deleted", "account_id", event.EntityID)
		return nil
	default:
		slog.WarnContext(ctx, "Ignoring unknown event kind", "kind", event.Kind)
		return nil
	}
}

func (w *SyncWorker) mirrorTransaction(ctx context.Context, id string) error {
	tx, err := w.source.Transaction(ctx, id)
	if errors.Is(err, core.ErrTransactionNotFound) {
		// Deleted before the event was consumed, the delete event will
		// clean up the mirror.
		slog.WarnContext(ctx, "Transaction gone before mirror", "transaction_id", id)
		return nil
	}
	if err != nil {
		return fmt.Errorf("fetch transaction: %w", err)
	}

	ref, err := w.writer.Append(ctx, tx)
	if err != nil {
		return fmt.Errorf("mirror transaction: %w", err)
	}

	slog.InfoContext(ctx, "Mirrored transaction",
		"transaction_id", id,
		"row_ref", ref,
		"amount_cents", tx.Amount.Cents)
	return nil
}

func (w *SyncWorker) removeTransaction(ctx context.Context, id string) error {
	if w.deleter == nil {
		slog.WarnContext(ctx, "No deleter configured, skipping mirror delete", "transaction_id", id)
		return nil
	}
	if err := w.deleter.Delete(ctx, id); err != nil {
		return fmt.Errorf("remove mirrored transaction: %w", err)
	}
	slog.InfoContext(ctx, "Removed mirrored transaction", "transaction_id", id)
	return nil
}
