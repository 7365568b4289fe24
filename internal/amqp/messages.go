package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Event kinds carried on the ledger exchange. Messages stay lightweight,
// the worker fetches full rows from the repository by EntityID.
const (
	EventTransactionCreated = "transaction.created"
	EventTransactionUpdated = "transaction.updated"
	EventTransactionDeleted = "transaction.deleted"
	EventAccountDeleted     = "account.deleted"
)

type LedgerEvent struct {
	Kind      string    `json:"kind"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
}

func NewLedgerEvent(kind, entityID string) *LedgerEvent {
	return &LedgerEvent{
		Kind:      kind,
		EntityID:  entityID,
		Timestamp: time.Now(),
	}
}

func (e *LedgerEvent) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}

func LedgerEventFromJSON(data []byte) (*LedgerEvent, error) {
	var evt LedgerEvent
	if err := json.Unmarshal(data, &evt); err != nil {
		return nil, fmt.Errorf("unmarshal ledger event: %w", err)
	}
	if evt.Kind == "" {
		return nil, fmt.Errorf("ledger event missing kind")
	}
	return &evt, nil
}
