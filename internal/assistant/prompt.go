package assistant

import (
	"fmt"
	"strings"

	"github.com/dvloznov/expense-assistant/internal/domain"
)

// Payload is the assembled instruction text for one completion call.
// It is built fresh per query and discarded afterwards.
type Payload struct {
	Text    string
	Reduced bool
}

// Size returns the payload size in bytes, the unit of the size budget.
func (p Payload) Size() int {
	return len(p.Text)
}

// PromptBuilder assembles completion payloads. ByteBudget bounds the
// serialized size; MaxReducedTransactions caps the transaction list of
// the reduced variant when the single window alone is still oversized.
type PromptBuilder struct {
	ByteBudget             int
	MaxReducedTransactions int
}

// Build assembles the primary payload: the full dataset's date range,
// the aggregates and transaction lists for all three windows, and the
// instructions telling the model how to pick a window from the question.
func (b *PromptBuilder) Build(w Windows, aggs WindowAggregates, question string) Payload {
	var sb strings.Builder

	sb.WriteString("You are a personal finance assistant. Answer the user's question using ONLY the expense data below.\n\n")
	fmt.Fprintf(&sb, "The data covers %s to %s.\n\n", w.AllTime.Start, w.AllTime.End)

	writeWindowSection(&sb, w.AllTime, aggs.AllTime)
	writeWindowSection(&sb, w.LastWeek, aggs.LastWeek)
	writeWindowSection(&sb, w.LastMonth, aggs.LastMonth)

	writeQuestion(&sb, question)
	writeInstructions(&sb)

	return Payload{Text: sb.String()}
}

// BuildReduced assembles the fallback payload from the single window
// most relevant to the question. It never fails: with zero transactions
// it still produces a minimal payload stating the absence of data.
func (b *PromptBuilder) BuildReduced(w Windows, aggs WindowAggregates, question string) Payload {
	window, agg := pickWindow(w, aggs, question)

	if len(window.Transactions) == 0 {
		var sb strings.Builder
		sb.WriteString("You are a personal finance assistant.\n\n")
		fmt.Fprintf(&sb, "The user has no recorded transactions for the %s period (%s to %s).\n\n",
			window.Label, window.Start, window.End)
		writeQuestion(&sb, question)
		sb.WriteString("Instructions:\n")
		sb.WriteString("- Tell the user, briefly and politely, that there is no expense data for that period.\n")
		return Payload{Text: sb.String(), Reduced: true}
	}

	payload := b.renderReduced(window, agg, question)
	if b.ByteBudget > 0 && payload.Size() > b.ByteBudget && len(window.Transactions) > b.MaxReducedTransactions {
		// Still oversized: keep only the most recent transactions.
		// Window transactions are already newest-first.
		trimmed := window
		trimmed.Transactions = window.Transactions[:b.MaxReducedTransactions]
		payload = b.renderReduced(trimmed, agg, question)
	}
	return payload
}

func (b *PromptBuilder) renderReduced(window domain.Window, agg domain.Aggregate, question string) Payload {
	var sb strings.Builder
	sb.WriteString("You are a personal finance assistant. Answer the user's question using ONLY the expense data below.\n\n")
	writeWindowSection(&sb, window, agg)
	writeQuestion(&sb, question)
	writeInstructions(&sb)
	return Payload{Text: sb.String(), Reduced: true}
}

// pickWindow selects the reduced window by simple keyword match on the
// question text; "last month" is the default period.
func pickWindow(w Windows, aggs WindowAggregates, question string) (domain.Window, domain.Aggregate) {
	q := strings.ToLower(question)
	if strings.Contains(q, "week") {
		return w.LastWeek, aggs.LastWeek
	}
	return w.LastMonth, aggs.LastMonth
}

func writeWindowSection(sb *strings.Builder, window domain.Window, agg domain.Aggregate) {
	fmt.Fprintf(sb, "=== %s (%s to %s) ===\n", strings.ToUpper(window.Label), window.Start, window.End)
	fmt.Fprintf(sb, "Needs: %.2f (%d%%), Wants: %.2f (%d%%), Uncategorized: %.2f, Total: %.2f\n",
		agg.NeedsTotal, agg.NeedsPercentage,
		agg.WantsTotal, agg.WantsPercentage,
		agg.UncategorizedTotal, agg.Total)
	fmt.Fprintf(sb, "Transactions (%d, newest first):\n", len(window.Transactions))
	for _, tx := range window.Transactions {
		fmt.Fprintf(sb, "- %s | %.2f | %s | %s | %s\n",
			tx.Date.Format("2006-01-02"), tx.Amount, tx.Category, tx.ExpenseType, tx.Description)
	}
	sb.WriteString("\n")
}

func writeQuestion(sb *strings.Builder, question string) {
	fmt.Fprintf(sb, "User question: %q\n\n", question)
}

// writeInstructions appends the window-selection and answer-formatting
// rules. The downstream model is the only consumer that enforces them,
// so they are included verbatim in every payload.
func writeInstructions(sb *strings.Builder) {
	sb.WriteString("Instructions:\n")
	sb.WriteString("- If the question mentions \"week\" or \"last week\", answer from the LAST WEEK data.\n")
	sb.WriteString("- If the question mentions \"month\" or \"last month\", answer from the LAST MONTH data.\n")
	sb.WriteString("- If the question mentions \"all\", \"total\" or \"ever\", answer from the ALL TIME data.\n")
	sb.WriteString("- If the question does not specify a period, answer from the LAST MONTH data.\n")
	sb.WriteString("- Answer in at most two sentences, in a friendly tone.\n")
	sb.WriteString("- Round amounts to two decimal places.\n")
	sb.WriteString("- Answer in plain text with no Markdown; the answer is read aloud by a voice assistant.\n")
}
