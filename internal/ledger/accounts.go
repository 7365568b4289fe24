package ledger

import (
	"fmt"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// accountStore owns the account collection and enforces balance rules.
// It performs no locking itself; the Ledger serializes access so that a
// transaction insert and its balance delta land in one atomic step.
type accountStore struct {
	accounts []core.Account
}

func (s *accountStore) add(name string, initialBalance core.Money) (core.Account, error) {
	acc := core.Account{
		ID:             uuid.NewString(),
		Name:           name,
		InitialBalance: initialBalance,
		Balance:        initialBalance,
	}
	if err := acc.Validate(); err != nil {
		return core.Account{}, err
	}
	s.accounts = append(s.accounts, acc)
	return acc, nil
}

// edit updates name and initial balance. Changing the initial balance shifts
// the running balance by the same delta, preserving the net effect of every
// transaction already recorded against the account.
func (s *accountStore) edit(id, name string, initialBalance core.Money) (core.Account, error) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Account{}, fmt.Errorf("edit account %s: %w", id, core.ErrAccountNotFound)
	}
	updated := s.accounts[idx]
	updated.Name = name
	updated.InitialBalance = initialBalance
	if err := updated.Validate(); err != nil {
		return core.Account{}, err
	}
	delta := initialBalance.Sub(s.accounts[idx].InitialBalance)
	updated.Balance = s.accounts[idx].Balance.Add(delta)
	s.accounts[idx] = updated
	return updated, nil
}

func (s *accountStore) delete(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("delete account %s: %w", id, core.ErrAccountNotFound)
	}
	s.accounts = append(s.accounts[:idx], s.accounts[idx+1:]...)
	return nil
}

// applyDelta posts a signed amount against an account balance. A missing
// account here means the transaction store and account store disagree, so it
// surfaces as an invariant violation instead of a silent no-op.
func (s *accountStore) applyDelta(id string, delta core.Money) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("apply delta to account %s: %w", id, core.ErrInvariantViolation)
	}
	s.accounts[idx].Balance = s.accounts[idx].Balance.Add(delta)
	return nil
}

func (s *accountStore) get(id string) (core.Account, bool) {
	idx := s.indexOf(id)
	if idx < 0 {
		return core.Account{}, false
	}
	return s.accounts[idx], true
}

func (s *accountStore) exists(id string) bool {
	return s.indexOf(id) >= 0
}

func (s *accountStore) list() []core.Account {
	out := make([]core.Account, len(s.accounts))
	copy(out, s.accounts)
	return out
}

func (s *accountStore) clear() {
	s.accounts = nil
}

func (s *accountStore) indexOf(id string) int {
	for i := range s.accounts {
		if s.accounts[i].ID == id {
			return i
		}
	}
	return -1
}
