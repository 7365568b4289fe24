package ledger

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// transactionStore keeps the ledger ordered newest-first by date. The sort is
// stable and new entries are inserted at the front, so among transactions
// with equal timestamps the most recently recorded one comes first.
type transactionStore struct {
	txs []core.Transaction
}

func (s *transactionStore) add(tx core.Transaction) core.Transaction {
	tx.ID = uuid.NewString()
	s.txs = append([]core.Transaction{tx}, s.txs...)
	s.resort()
	return tx
}

func (s *transactionStore) edit(id string, updated core.Transaction) (old core.Transaction, now core.Transaction, err error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, core.Transaction{}, fmt.Errorf("edit transaction %s: %w", id, core.ErrTransactionNotFound)
	}
	old = s.txs[idx]
	updated.ID = id
	s.txs[idx] = updated
	s.resort()
	return old, updated, nil
}

func (s *transactionStore) delete(id string) (core.Transaction, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, fmt.Errorf("delete transaction %s: %w", id, core.ErrTransactionNotFound)
	}
	tx := s.txs[idx]
	s.txs = append(s.txs[:idx], s.txs[idx+1:]...)
	return tx, nil
}

// deleteForAccount purges every transaction that references the account and
// returns the removed IDs. Invoked only via cascading account deletion.
func (s *transactionStore) deleteForAccount(accountID string) []string {
	kept := s.txs[:0]
	var removed []string
	for _, tx := range s.txs {
		if tx.AccountID == accountID {
			removed = append(removed, tx.ID)
			continue
		}
		kept = append(kept, tx)
	}
	s.txs = kept
	return removed
}

func (s *transactionStore) get(id string) (core.Transaction, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Transaction{}, false
	}
	return s.txs[idx], true
}

func (s *transactionStore) list(match func(core.Transaction) bool) []core.Transaction {
	out := make([]core.Transaction, 0, len(s.txs))
	for _, tx := range s.txs {
		if match == nil || match(tx) {
			out = append(out, tx)
		}
	}
	return out
}

func (s *transactionStore) clear() {
	s.txs = nil
}

func (s *transactionStore) resort() {
	sort.SliceStable(s.txs, func(i, j int) bool {
		return s.txs[i].Date.After(s.txs[j].Date)
	})
}

func (s *transactionStore) indexOf(id string) int {
	for i := range s.txs {
		if s.txs[i].ID == id {
			return i
		}
	}
	return -1
}
