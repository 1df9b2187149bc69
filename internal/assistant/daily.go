package assistant

import (
	"math"
	"time"

	"github.com/dvloznov/expense-assistant/internal/domain"
)

// DailyTotal is the running spend through one day of the month.
type DailyTotal struct {
	Day   int
	Total float64
}

// CurrentMonthDaily computes the cumulative spend per day for the month
// of the newest dated transaction, one entry per day from the 1st
// through that date. Like the windows, the series is anchored to the
// dataset rather than the wall clock. Totals are rounded to two decimal
// places. ok is false when no transaction carries a valid date.
func CurrentMonthDaily(txs []domain.Transaction) ([]DailyTotal, bool) {
	var anchor time.Time
	found := false
	for _, tx := range txs {
		if tx.DateValid && (!found || tx.Date.After(anchor)) {
			anchor = tx.Date
			found = true
		}
	}
	if !found {
		return nil, false
	}

	perDay := make(map[int]float64)
	for _, tx := range txs {
		if !tx.DateValid {
			continue
		}
		if tx.Date.Year() != anchor.Year() || tx.Date.Month() != anchor.Month() {
			continue
		}
		perDay[tx.Date.Day()] += tx.Amount
	}

	series := make([]DailyTotal, 0, anchor.Day())
	running := 0.0
	for day := 1; day <= anchor.Day(); day++ {
		running += perDay[day]
		series = append(series, DailyTotal{
			Day:   day,
			Total: math.Round(running*100) / 100,
		})
	}
	return series, true
}
