package google

import (
	"fintrack/internal/core"
)

// TransactionRow renders the mirror row for a transaction. Column order:
// ID, Date, Type, Amount, Category, Description, Account, Payee, Status.
func TransactionRow(tx core.Transaction) []any {
	return []any{
		tx.ID,
		tx.Date.Format("2006-01-02"),
		string(tx.Type),
		tx.Amount.Float64(),
		tx.Category,
		tx.Description,
		tx.AccountID,
		tx.Payee,
		tx.Status,
	}
}
