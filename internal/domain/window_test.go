package domain

import (
	"math"
	"testing"
)

func tx(amount float64, kind ExpenseType) Transaction {
	return Transaction{Amount: amount, ExpenseType: kind}
}

func TestAggregateTransactions(t *testing.T) {
	tests := []struct {
		name string
		txs  []Transaction
		want Aggregate
	}{
		{
			name: "empty subset is all zeroes",
			txs:  nil,
			want: Aggregate{},
		},
		{
			name: "wants only",
			txs:  []Transaction{tx(20, ExpenseTypeWant)},
			want: Aggregate{WantsTotal: 20, Total: 20, WantsPercentage: 100},
		},
		{
			name: "mixed with uncategorized",
			txs: []Transaction{
				tx(50, ExpenseTypeNeed),
				tx(30, ExpenseTypeWant),
				tx(20, ExpenseTypeUnknown),
			},
			want: Aggregate{
				NeedsTotal:         50,
				WantsTotal:         30,
				UncategorizedTotal: 20,
				Total:              100,
				NeedsPercentage:    50,
				WantsPercentage:    30,
			},
		},
		{
			name: "rounding is per bucket",
			txs: []Transaction{
				tx(1, ExpenseTypeNeed),
				tx(1, ExpenseTypeWant),
				tx(1, ExpenseTypeUnknown),
			},
			// 33.33% rounds to 33 for each bucket; they need not sum to 100.
			want: Aggregate{
				NeedsTotal:         1,
				WantsTotal:         1,
				UncategorizedTotal: 1,
				Total:              3,
				NeedsPercentage:    33,
				WantsPercentage:    33,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AggregateTransactions(tt.txs)
			if got != tt.want {
				t.Errorf("AggregateTransactions() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestAggregateTransactions_TotalsInvariant(t *testing.T) {
	txs := []Transaction{
		tx(10.10, ExpenseTypeNeed),
		tx(0.20, ExpenseTypeWant),
		tx(3.33, ExpenseTypeUnknown),
		tx(7.77, ExpenseTypeNeed),
		tx(0, ExpenseTypeWant),
	}

	agg := AggregateTransactions(txs)

	sum := agg.NeedsTotal + agg.WantsTotal + agg.UncategorizedTotal
	if math.Abs(sum-agg.Total) > 1e-9 {
		t.Errorf("needs+wants+uncategorized = %v, total = %v", sum, agg.Total)
	}
	for _, pct := range []int{agg.NeedsPercentage, agg.WantsPercentage} {
		if pct < 0 || pct > 100 {
			t.Errorf("percentage %d outside [0,100]", pct)
		}
	}
}

func TestParseExpenseType(t *testing.T) {
	tests := []struct {
		input string
		want  ExpenseType
	}{
		{"need", ExpenseTypeNeed},
		{"NEED", ExpenseTypeNeed},
		{" Want ", ExpenseTypeWant},
		{"unknown", ExpenseTypeUnknown},
		{"luxury", ExpenseTypeUnknown},
		{"", ExpenseTypeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ParseExpenseType(tt.input); got != tt.want {
				t.Errorf("ParseExpenseType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
