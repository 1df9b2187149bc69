package assistant

import (
	"sort"
	"time"

	"cloud.google.com/go/civil"

	"github.com/dvloznov/expense-assistant/internal/domain"
)

// Window labels as they appear in prompts and logs.
const (
	WindowAllTime   = "all time"
	WindowLastWeek  = "last week"
	WindowLastMonth = "last month"
)

// Windows holds the three derived views over the dated transaction set.
// Now is the maximum parsed date across the input, so the windows are a
// deterministic function of the dataset rather than the wall clock.
type Windows struct {
	Now       civil.Date
	AllTime   domain.Window
	LastWeek  domain.Window
	LastMonth domain.Window
}

// WindowAggregates pairs each window with its needs/wants aggregate.
type WindowAggregates struct {
	AllTime   domain.Aggregate
	LastWeek  domain.Aggregate
	LastMonth domain.Aggregate
}

// SelectWindows computes the last-week, last-month and all-time windows
// over the dated subset of txs. Transactions with unparseable dates are
// skipped here (they were already counted during normalization).
// ok is false when no dated transaction exists; callers handle the
// zero-transaction case themselves.
func SelectWindows(txs []domain.Transaction) (Windows, bool) {
	dated := make([]domain.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.DateValid {
			dated = append(dated, tx)
		}
	}
	if len(dated) == 0 {
		return Windows{}, false
	}

	// Newest-first for display; aggregation does not depend on order.
	sort.Slice(dated, func(i, j int) bool {
		return dated[i].Date.After(dated[j].Date)
	})

	now := dated[0].Date
	// "Last month" is one calendar month back, not 30 days; that
	// mirrors how a person describes the period.
	weekStart := civil.DateOf(now.AddDate(0, 0, -7))
	monthStart := civil.DateOf(monthBack(now))

	w := Windows{
		Now: civil.DateOf(now),
		AllTime: domain.Window{
			Label: WindowAllTime,
			Start: civil.DateOf(dated[len(dated)-1].Date),
			End:   civil.DateOf(now),
		},
		LastWeek: domain.Window{
			Label: WindowLastWeek,
			Start: weekStart,
			End:   civil.DateOf(now),
		},
		LastMonth: domain.Window{
			Label: WindowLastMonth,
			Start: monthStart,
			End:   civil.DateOf(now),
		},
	}

	for _, tx := range dated {
		d := civil.DateOf(tx.Date)
		w.AllTime.Transactions = append(w.AllTime.Transactions, tx)
		if w.LastWeek.Contains(d) {
			w.LastWeek.Transactions = append(w.LastWeek.Transactions, tx)
		}
		if w.LastMonth.Contains(d) {
			w.LastMonth.Transactions = append(w.LastMonth.Transactions, tx)
		}
	}

	return w, true
}

// monthBack returns t minus one calendar month. AddDate normalizes a
// month-end overshoot forward into t's own month (Mar 31 minus one
// month would land on Mar 3), so those anchors are clamped to the last
// day of the previous month instead.
func monthBack(t time.Time) time.Time {
	d := t.AddDate(0, -1, 0)
	if d.Month() == t.Month() && d.Year() == t.Year() {
		d = time.Date(t.Year(), t.Month(), 0, 0, 0, 0, 0, t.Location())
	}
	return d
}

// AggregateWindows computes the aggregate for each of the three windows.
func AggregateWindows(w Windows) WindowAggregates {
	return WindowAggregates{
		AllTime:   domain.AggregateTransactions(w.AllTime.Transactions),
		LastWeek:  domain.AggregateTransactions(w.LastWeek.Transactions),
		LastMonth: domain.AggregateTransactions(w.LastMonth.Transactions),
	}
}
