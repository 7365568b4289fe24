package ledger

import "fintrack/internal/core"

// Default catalogs. Transactions may still carry arbitrary category strings;
// budgets apply to catalog entries only.
var (
	DefaultExpenseCategories = []core.Category{
		{Value: "food", Label: "Food", Icon: "utensils"},
		{Value: "groceries", Label: "Groceries", Icon: "shopping-cart"},
		{Value: "transportation", Label: "Transportation", Icon: "bus"},
		{Value: "utilities", Label: "Utilities", Icon: "plug"},
		{Value: "bills", Label: "Bills", Icon: "receipt"},
		{Value: "rent", Label: "Rent", Icon: "home"},
		{Value: "shopping", Label: "Shopping", Icon: "shopping-bag"},
		{Value: "entertainment", Label: "Entertainment", Icon: "film"},
		{Value: "health", Label: "Health", Icon: "heart-pulse"},
		{Value: "education", Label: "Education", Icon: "book"},
		{Value: "travel", Label: "Travel", Icon: "plane"},
		{Value: "other", Label: "Other", Icon: "circle-help"},
	}

	DefaultIncomeCategories = []core.Category{
		{Value: "salary", Label: "Salary", Icon: "banknote"},
		{Value: "freelance", Label: "Freelance", Icon: "laptop"},
		{Value: "business", Label: "Business", Icon: "briefcase"},
		{Value: "interest", Label: "Interest", Icon: "percent"},
		{Value: "refund", Label: "Refund", Icon: "rotate-ccw"},
		{Value: "gift", Label: "Gift", Icon: "gift"},
		{Value: "other", Label: "Other", Icon: "circle-help"},
	}
)
