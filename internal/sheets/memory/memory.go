// Package memory is an in-process mirror adapter used in tests and when no
// spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"fintrack/internal/core"
	ports "fintrack/internal/sheets"
)

type Mirror struct {
	mu   sync.Mutex
	rows map[string]core.Transaction
}

var (
	_ ports.TransactionWriter  = (*Mirror)(nil)
	_ ports.TransactionDeleter = (*Mirror)(nil)
)

func New() *Mirror {
	return &Mirror{rows: make(map[string]core.Transaction)}
}

func (m *Mirror) Append(ctx context.Context, tx core.Transaction) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[tx.ID] = tx
	return fmt.Sprintf("memory:%s", tx.ID), nil
}

func (m *Mirror) Delete(ctx context.Context, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.rows, transactionID)
	return nil
}

// Rows returns a copy of the mirrored rows.
func (m *Mirror) Rows() map[string]core.Transaction {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]core.Transaction, len(m.rows))
	for id, tx := range m.rows {
		out[id] = tx
	}
	return out
}
