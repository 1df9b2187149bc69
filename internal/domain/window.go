package domain

import (
	"math"

	"cloud.google.com/go/civil"
)

// Window is a derived, non-persisted time range over transactions.
// Start and End are inclusive; windows are anchored to the dataset's
// own latest date, not the wall clock, and recomputed per query.
type Window struct {
	Label        string
	Start        civil.Date
	End          civil.Date
	Transactions []Transaction // sorted newest-first for display
}

// Contains reports whether d falls within [Start, End].
func (w Window) Contains(d civil.Date) bool {
	return !d.Before(w.Start) && !d.After(w.End)
}

// Aggregate holds the needs/wants/uncategorized totals and percentages
// for a window's transaction subset. Percentages are rounded per window
// independently, so they are not guaranteed to sum to exactly 100 when
// an uncategorized bucket exists.
type Aggregate struct {
	NeedsTotal         float64
	WantsTotal         float64
	UncategorizedTotal float64
	Total              float64

	NeedsPercentage int
	WantsPercentage int
}

// AggregateTransactions computes an Aggregate over a transaction subset.
// It is order-independent and returns all zeroes for an empty subset.
func AggregateTransactions(txs []Transaction) Aggregate {
	var agg Aggregate
	for _, tx := range txs {
		switch tx.ExpenseType {
		case ExpenseTypeNeed:
			agg.NeedsTotal += tx.Amount
		case ExpenseTypeWant:
			agg.WantsTotal += tx.Amount
		default:
			agg.UncategorizedTotal += tx.Amount
		}
		agg.Total += tx.Amount
	}

	agg.NeedsPercentage = percentage(agg.NeedsTotal, agg.Total)
	agg.WantsPercentage = percentage(agg.WantsTotal, agg.Total)
	return agg
}

// percentage rounds part/total to the nearest whole percent and
// returns 0 when total is zero so empty windows never produce NaN.
func percentage(part, total float64) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(part / total * 100))
}
