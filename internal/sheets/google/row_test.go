package google

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestTransactionRow(t *testing.T) {
	tx := core.Transaction{
		ID:          "tx-1",
		Type:        core.Expense,
		Amount:      core.Money{Cents: 1250},
		Date:        time.Date(2025, 6, 10, 15, 30, 0, 0, time.UTC),
		Category:    "food",
		Description: "lunch",
		AccountID:   "acc-1",
		Payee:       "Trattoria",
		Status:      core.StatusCleared,
	}

	row := TransactionRow(tx)
	if len(row) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(row))
	}
	if row[0] != "tx-1" {
		t.Errorf("expected ID in column A, got %v", row[0])
	}
	if row[1] != "2025-06-10" {
		t.Errorf("expected ISO date, got %v", row[1])
	}
	if row[2] != "expense" {
		t.Errorf("expected type, got %v", row[2])
	}
	if row[3] != 12.5 {
		t.Errorf("expected decimal amount 12.5, got %v", row[3])
	}
	if row[8] != core.StatusCleared {
		t.Errorf("expected status, got %v", row[8])
	}
}
