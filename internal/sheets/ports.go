// Package sheets defines the outbound ports for the spreadsheet mirror and
// hosts its adapters.
package sheets

import (
	"context"

	"fintrack/internal/core"
)

type (
	// TransactionWriter appends or rewrites a transaction row in the mirror.
	TransactionWriter interface {
		Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
	}

	// TransactionDeleter removes a transaction row by ledger ID.
	TransactionDeleter interface {
		Delete(ctx context.Context, transactionID string) error
	}
)
