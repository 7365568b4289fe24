package http

import (
	"net/http"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/report"
)

type summaryResponse struct {
	Period               string           `json:"period"`
	IncomeCents          int64            `json:"income_cents"`
	ExpenseCents         int64            `json:"expense_cents"`
	InvestmentCents      int64            `json:"investment_cents"`
	ByCategoryCents      map[string]int64 `json:"by_category_cents"`
	Budgets              []budgetLine     `json:"budgets"`
	DailyAverageCents    int64            `json:"daily_average_cents"`
	TotalBalanceCents    int64            `json:"total_balance_cents"`
	AccountBalancesCents map[string]int64 `json:"account_balances_cents"`
}

type budgetLine struct {
	Category    string `json:"category"`
	BudgetCents int64  `json:"budget_cents"`
	SpentCents  int64  `json:"spent_cents"`
}

type dayBucket struct {
	Date         string `json:"date"`
	Label        string `json:"label"`
	IncomeCents  int64  `json:"income_cents"`
	ExpenseCents int64  `json:"expense_cents"`
}

// handleSummary aggregates the ledger for a period (today|week|month, or
// all time when absent). Responses are cached briefly; every mutation
// clears the cache.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	period := r.URL.Query().Get("period")
	cacheKey := "summary:" + period
	if cached, ok := s.summaryCache.Get(cacheKey); ok {
		respondJSON(w, http.StatusOK, cached)
		return
	}

	now := time.Now()
	all := s.svc.Transactions(nil)

	txs := all
	if period != "" {
		filtered, err := report.FilterByPeriod(all, report.Period(period), now)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		txs = filtered
	}

	totals := report.SumByType(txs)
	byCategory := report.SumByCategory(txs, core.Expense)
	lines := report.BudgetComparison(all, s.svc.Categories(core.Expense), now)

	resp := summaryResponse{
		Period:               period,
		IncomeCents:          totals.Income.Cents,
		ExpenseCents:         totals.Expense.Cents,
		InvestmentCents:      totals.Investment.Cents,
		ByCategoryCents:      make(map[string]int64, len(byCategory)),
		Budgets:              make([]budgetLine, 0, len(lines)),
		DailyAverageCents:    report.DailyAverageSpend(all, now).Cents,
		AccountBalancesCents: make(map[string]int64),
	}
	for cat, amount := range byCategory {
		resp.ByCategoryCents[cat] = amount.Cents
	}
	for _, line := range lines {
		resp.Budgets = append(resp.Budgets, budgetLine{
			Category:    line.Category,
			BudgetCents: line.Budget.Cents,
			SpentCents:  line.Spent.Cents,
		})
	}
	for _, acc := range s.svc.Accounts() {
		resp.AccountBalancesCents[acc.ID] = acc.Balance.Cents
		resp.TotalBalanceCents += acc.Balance.Cents
	}

	s.summaryCache.Set(cacheKey, resp)
	respondJSON(w, http.StatusOK, resp)
}

// handleCategorySummary breaks spending down per category for one
// transaction type, optionally filtered to a period.
func (s *Server) handleCategorySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	typ := core.TransactionType(r.URL.Query().Get("type"))
	if typ == "" {
		typ = core.Expense
	}

	txs := s.svc.Transactions(nil)
	if period := r.URL.Query().Get("period"); period != "" {
		filtered, err := report.FilterByPeriod(txs, report.Period(period), time.Now())
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		txs = filtered
	}

	byCategory := report.SumByCategory(txs, typ)
	out := make(map[string]int64, len(byCategory))
	for cat, amount := range byCategory {
		out[cat] = amount.Cents
	}
	respondJSON(w, http.StatusOK, out)
}

// handleBudgetSummary reports current-month spend against each budgeted
// expense category.
func (s *Server) handleBudgetSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lines := report.BudgetComparison(s.svc.Transactions(nil), s.svc.Categories(core.Expense), time.Now())
	out := make([]budgetLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, budgetLine{
			Category:    line.Category,
			BudgetCents: line.Budget.Cents,
			SpentCents:  line.Spent.Cents,
		})
	}
	respondJSON(w, http.StatusOK, out)
}

// handleDailySummary returns zero-filled per-day buckets for a date range.
// Defaults to the last 30 days.
func (s *Server) handleDailySummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	now := time.Now()
	start := now.AddDate(0, 0, -29)
	end := now

	q := r.URL.Query()
	if from := firstOf(q.Get("start"), q.Get("from")); from != "" {
		t, err := parseDate(from)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		start = t
	}
	if to := firstOf(q.Get("end"), q.Get("to")); to != "" {
		t, err := parseDate(to)
		if err != nil {
			respondError(w, http.StatusBadRequest, err)
			return
		}
		end = t
	}

	buckets, err := report.GroupByDay(s.svc.Transactions(nil), start, end)
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	out := make([]dayBucket, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, dayBucket{
			Date:         b.Date.Format("2006-01-02"),
			Label:        b.Label,
			IncomeCents:  b.Income.Cents,
			ExpenseCents: b.Expense.Cents,
		})
	}
	respondJSON(w, http.StatusOK, out)
}
