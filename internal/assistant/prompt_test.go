package assistant

import (
	"fmt"
	"strings"
	"testing"

	"github.com/dvloznov/expense-assistant/internal/domain"
)

func testWindows(t *testing.T) (Windows, WindowAggregates) {
	t.Helper()
	txs := []domain.Transaction{
		datedTx("2025-05-10", 20, domain.ExpenseTypeWant),
		datedTx("2025-05-07", 12.50, domain.ExpenseTypeNeed),
		datedTx("2025-04-20", 30, domain.ExpenseTypeNeed),
		datedTx("2025-03-22", 50, domain.ExpenseTypeNeed),
	}
	w, ok := SelectWindows(txs)
	if !ok {
		t.Fatal("SelectWindows failed for test data")
	}
	return w, AggregateWindows(w)
}

func TestPromptBuilder_Build(t *testing.T) {
	w, aggs := testWindows(t)
	b := &PromptBuilder{ByteBudget: 20000, MaxReducedTransactions: 50}

	payload := b.Build(w, aggs, "how much did I spend on needs last month")

	if payload.Reduced {
		t.Error("primary payload marked as reduced")
	}

	text := payload.Text
	for _, want := range []string{
		"2025-03-22 to 2025-05-10", // full date range
		"ALL TIME", "LAST WEEK", "LAST MONTH",
		"how much did I spend on needs last month",
		"does not specify a period",
		"LAST MONTH data",
		"two decimal places",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("primary payload missing %q", want)
		}
	}

	// Every transaction line appears in the all-time section.
	for _, line := range []string{"2025-05-10 | 20.00", "2025-05-07 | 12.50", "2025-03-22 | 50.00"} {
		if !strings.Contains(text, line) {
			t.Errorf("primary payload missing transaction line %q", line)
		}
	}
}

func TestPromptBuilder_BuildIdempotent(t *testing.T) {
	w, aggs := testWindows(t)
	b := &PromptBuilder{ByteBudget: 20000, MaxReducedTransactions: 50}

	p1 := b.Build(w, aggs, "needs last month?")
	p2 := b.Build(w, aggs, "needs last month?")
	if p1.Size() != p2.Size() || p1.Text != p2.Text {
		t.Error("primary payload not identical across builds")
	}

	r1 := b.BuildReduced(w, aggs, "needs last month?")
	r2 := b.BuildReduced(w, aggs, "needs last month?")
	if r1.Size() != r2.Size() {
		t.Error("reduced payload size not identical across builds")
	}
}

func TestPromptBuilder_BuildReduced_KeywordSelection(t *testing.T) {
	w, aggs := testWindows(t)
	b := &PromptBuilder{ByteBudget: 20000, MaxReducedTransactions: 50}

	tests := []struct {
		name      string
		question  string
		wantLabel string
	}{
		{"week keyword", "what did I buy last week", WindowLastWeek},
		{"month keyword", "spending this month", WindowLastMonth},
		{"no period defaults to last month", "how much on groceries", WindowLastMonth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := b.BuildReduced(w, aggs, tt.question)
			if !payload.Reduced {
				t.Error("reduced payload not marked as reduced")
			}
			if !strings.Contains(payload.Text, "=== "+strings.ToUpper(tt.wantLabel)) {
				t.Errorf("reduced payload does not use the %q window:\n%s", tt.wantLabel, payload.Text)
			}
			// The reduced payload carries exactly one window section.
			if got := strings.Count(payload.Text, "==="); got != 2 {
				t.Errorf("reduced payload has %d section markers, want 2 (one window)", got)
			}
		})
	}
}

func TestPromptBuilder_BuildReduced_Truncates(t *testing.T) {
	// Many transactions in the last-month window with a tiny budget.
	txs := make([]domain.Transaction, 0, 40)
	for i := 0; i < 40; i++ {
		txs = append(txs, datedTx(fmt.Sprintf("2025-05-%02d", i%28+1), float64(i+1), domain.ExpenseTypeWant))
	}
	w, ok := SelectWindows(txs)
	if !ok {
		t.Fatal("SelectWindows failed")
	}
	aggs := AggregateWindows(w)

	b := &PromptBuilder{ByteBudget: 400, MaxReducedTransactions: 5}
	payload := b.BuildReduced(w, aggs, "how much this month")

	if got := strings.Count(payload.Text, "\n- 2025-"); got != 5 {
		t.Errorf("reduced payload lists %d transactions, want 5", got)
	}
	// Most recent kept: day 28 appears, day 01 does not.
	if !strings.Contains(payload.Text, "2025-05-28") {
		t.Error("truncation dropped the most recent transaction")
	}
}

func TestPromptBuilder_BuildReduced_NoData(t *testing.T) {
	// Only an old transaction: the last-week window is empty.
	txs := []domain.Transaction{
		datedTx("2025-05-10", 10, domain.ExpenseTypeNeed),
	}
	w, _ := SelectWindows(txs)
	// Force an empty window by asking about the week after clearing it.
	w.LastWeek.Transactions = nil
	aggs := AggregateWindows(w)

	b := &PromptBuilder{ByteBudget: 400, MaxReducedTransactions: 5}
	payload := b.BuildReduced(w, aggs, "what did I spend last week")

	if !strings.Contains(payload.Text, "no recorded transactions") {
		t.Errorf("empty-window payload does not state the absence of data:\n%s", payload.Text)
	}
	if !strings.Contains(payload.Text, WindowLastWeek) {
		t.Errorf("empty-window payload does not name the period:\n%s", payload.Text)
	}
}
