// Package report derives display-ready summaries from ledger snapshots.
// Every function is pure: it takes a transaction slice plus parameters,
// never mutates its input and returns the same result for the same input.
package report

import (
	"errors"
	"fmt"
	"time"

	"fintrack/internal/core"
)

// Period selects a live "spend so far" window anchored to a reference time.
type Period string

const (
	PeriodToday Period = "today"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// ErrInvalidArgument reports malformed aggregation input, e.g. a reversed
// date range or an unknown period.
var ErrInvalidArgument = errors.New("invalid argument")

// Totals groups amounts by transaction type.
type Totals struct {
	Income     core.Money
	Expense    core.Money
	Investment core.Money
}

// BudgetLine pairs a category's configured monthly budget with the amount
// spent in the current calendar month.
type BudgetLine struct {
	Category string
	Budget   core.Money
	Spent    core.Money
}

// DayBucket holds one calendar day's income and expense totals.
type DayBucket struct {
	Date    time.Time
	Label   string
	Income  core.Money
	Expense core.Money
}

// SumByType totals transactions grouped by type. Extended types are ignored;
// they carry no aggregate semantics.
func SumByType(txs []core.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case core.Income:
			t.Income = t.Income.Add(tx.Amount)
		case core.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
		case core.Investment:
			t.Investment = t.Investment.Add(tx.Amount)
		}
	}
	return t
}

// SumByCategory totals transactions of the given type, grouped by category.
// The result is unordered; callers sort for display.
func SumByCategory(txs []core.Transaction, typ core.TransactionType) map[string]core.Money {
	out := make(map[string]core.Money)
	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		out[tx.Category] = out[tx.Category].Add(tx.Amount)
	}
	return out
}

// FilterByDateRange returns transactions with inclusive bounds. A zero end
// means a single-day filter: the end of start's calendar day.
func FilterByDateRange(txs []core.Transaction, start, end time.Time) ([]core.Transaction, error) {
	if start.IsZero() {
		return nil, fmt.Errorf("date range start: %w", ErrInvalidArgument)
	}
	if end.IsZero() {
		end = endOfDay(start)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("date range end before start: %w", ErrInvalidArgument)
	}
	out := make([]core.Transaction, 0)
	for _, tx := range txs {
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		out = append(out, tx)
	}
	return out, nil
}

// FilterByPeriod returns transactions between the period start and now.
// All periods are anchored to now, not to midnight of the end date: a
// transaction dated later today than now is excluded.
func FilterByPeriod(txs []core.Transaction, period Period, now time.Time) ([]core.Transaction, error) {
	var start time.Time
	switch period {
	case PeriodToday:
		start = startOfDay(now)
	case PeriodWeek:
		start = startOfWeek(now)
	case PeriodMonth:
		start = startOfMonth(now)
	default:
		return nil, fmt.Errorf("period %q: %w", period, ErrInvalidArgument)
	}
	return FilterByDateRange(txs, start, now)
}

// BudgetComparison restricts to expense transactions within the current
// calendar month, sums spent per category and pairs each catalog entry's
// budget with it. Only categories with a positive budget are included.
// Transactions match a catalog entry by value or label.
func BudgetComparison(txs []core.Transaction, categories []core.Category, now time.Time) []BudgetLine {
	start := startOfMonth(now)
	end := endOfMonth(now)

	spent := make(map[string]core.Money)
	for _, tx := range txs {
		if tx.Type != core.Expense {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(end) {
			continue
		}
		spent[tx.Category] = spent[tx.Category].Add(tx.Amount)
	}

	out := make([]BudgetLine, 0)
	for _, cat := range categories {
		if cat.Budget.Cents <= 0 {
			continue
		}
		total := spent[cat.Value]
		if cat.Label != cat.Value {
			total = total.Add(spent[cat.Label])
		}
		out = append(out, BudgetLine{
			Category: cat.Label,
			Budget:   cat.Budget,
			Spent:    total,
		})
	}
	return out
}

// GroupByDay buckets transactions by calendar day between start and end,
// oldest first. A bucket is produced for every day in the range, including
// days with no activity, so chart time axes have no gaps.
func GroupByDay(txs []core.Transaction, start, end time.Time) ([]DayBucket, error) {
	if start.IsZero() || end.IsZero() {
		return nil, fmt.Errorf("day grouping bounds: %w", ErrInvalidArgument)
	}
	start = startOfDay(start)
	end = startOfDay(end)
	if end.Before(start) {
		return nil, fmt.Errorf("day grouping end before start: %w", ErrInvalidArgument)
	}

	index := make(map[string]int)
	buckets := make([]DayBucket, 0)
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		key := d.Format("2006-01-02")
		index[key] = len(buckets)
		buckets = append(buckets, DayBucket{Date: d, Label: d.Format("Jan 2")})
	}

	for _, tx := range txs {
		// Key in the range's location so a transaction carrying another
		// zone lands in the bucket of the same wall-clock day.
		i, ok := index[tx.Date.In(start.Location()).Format("2006-01-02")]
		if !ok {
			continue
		}
		switch tx.Type {
		case core.Income:
			buckets[i].Income = buckets[i].Income.Add(tx.Amount)
		case core.Expense:
			buckets[i].Expense = buckets[i].Expense.Add(tx.Amount)
		}
	}
	return buckets, nil
}

// DailyAverageSpend divides all-time expense totals by the number of days
// since the earliest transaction (inclusive). With no transactions the
// earliest date defaults to now, giving a divisor of 1 and a result of 0.
func DailyAverageSpend(txs []core.Transaction, now time.Time) core.Money {
	earliest := now
	var total core.Money
	for _, tx := range txs {
		if tx.Date.Before(earliest) {
			earliest = tx.Date
		}
		if tx.Type == core.Expense {
			total = total.Add(tx.Amount)
		}
	}
	days := int64(now.Sub(earliest).Hours()/24) + 1
	if days < 1 {
		days = 1
	}
	return core.Money{Cents: total.Cents / days}
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// startOfWeek uses Monday as the first day of the week.
func startOfWeek(t time.Time) time.Time {
	offset := (int(t.Weekday()) + 6) % 7
	return startOfDay(t.AddDate(0, 0, -offset))
}

func startOfMonth(t time.Time) time.Time {
	y, m, _ := t.Date()
	return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
}

func endOfMonth(t time.Time) time.Time {
	return startOfMonth(t).AddDate(0, 1, 0).Add(-time.Nanosecond)
}
