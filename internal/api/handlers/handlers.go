package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/dvloznov/expense-assistant/internal/api/middleware"
	"github.com/dvloznov/expense-assistant/internal/assistant"
	"github.com/dvloznov/expense-assistant/internal/domain"
	"github.com/dvloznov/expense-assistant/internal/logger"
)

// Answerer answers a free-text question about the user's expenses.
// This interface enables mocking the orchestrator in handler tests.
type Answerer interface {
	Answer(ctx context.Context, question string) (string, error)
}

// AskHandler handles the question-answering endpoint.
type AskHandler struct {
	answerer Answerer
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(answerer Answerer) *AskHandler {
	return &AskHandler{answerer: answerer}
}

// Ask handles POST /api/ask
func (h *AskHandler) Ask(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Question string `json:"question"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" {
		middleware.WriteError(w, http.StatusBadRequest, "Question is required")
		return
	}

	answer, err := h.answerer.Answer(r.Context(), req.Question)
	if err != nil {
		h.writeQueryError(w, r, err)
		return
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]string{
		"answer": answer,
	})
}

// writeQueryError maps the orchestrator's taxonomy onto HTTP statuses.
// The body always carries the fixed user-facing message, never the
// underlying error.
func (h *AskHandler) writeQueryError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	var qerr *assistant.QueryError
	if !errors.As(err, &qerr) {
		log.Error().Err(err).Msg("Unclassified query failure")
		middleware.WriteError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	log.Warn().Err(qerr).Str("kind", string(qerr.Kind)).Msg("Query failed")

	status := http.StatusBadGateway
	switch qerr.Kind {
	case assistant.KindConfiguration:
		status = http.StatusInternalServerError
	case assistant.KindNoValidData:
		status = http.StatusNotFound
	case assistant.KindDataUnavailable, assistant.KindCompletionRateLimited:
		status = http.StatusServiceUnavailable
	}

	middleware.WriteJSON(w, status, map[string]string{
		"error": qerr.UserMessage(),
		"kind":  string(qerr.Kind),
	})
}

// ExpensesHandler serves the dashboard data endpoints.
type ExpensesHandler struct {
	fetcher assistant.RecordFetcher
}

// NewExpensesHandler creates a new expenses handler.
func NewExpensesHandler(fetcher assistant.RecordFetcher) *ExpensesHandler {
	return &ExpensesHandler{fetcher: fetcher}
}

// expenseRow is the dashboard's per-transaction JSON shape.
type expenseRow struct {
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Want        bool    `json:"want"`
}

// Expenses handles GET /api/expenses. It returns the classified expense
// list with the needs/wants percentages, the shape the chart dashboard
// consumes. The percentages are shares of the transaction count over
// all normalized rows, rounded to two decimals; only rows with a known
// expense type appear in the list.
func (h *ExpensesHandler) Expenses(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	rows, err := h.fetcher.FetchRows(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch expense records")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to fetch expense data")
		return
	}

	txs, diag := assistant.Normalize(rows)
	log.Info().
		Int("normalized", len(txs)).
		Int("dropped_empty", diag.DroppedEmptyRows).
		Msg("Serving expenses")

	var needsCount, wantsCount int
	expenses := make([]expenseRow, 0, len(txs))
	for _, tx := range txs {
		switch tx.ExpenseType {
		case domain.ExpenseTypeNeed:
			needsCount++
		case domain.ExpenseTypeWant:
			wantsCount++
		default:
			continue
		}
		row := expenseRow{
			Amount:      tx.Amount,
			Category:    tx.Category,
			Description: tx.Description,
			Want:        tx.ExpenseType == domain.ExpenseTypeWant,
		}
		if tx.DateValid {
			row.Date = tx.Date.Format("2006-01-02")
		}
		expenses = append(expenses, row)
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"needs":    countPercentage(needsCount, len(txs)),
		"wants":    countPercentage(wantsCount, len(txs)),
		"expenses": expenses,
	})
}

// countPercentage is the share of count in total as a percentage,
// rounded to two decimals. Zero when the set is empty.
func countPercentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*100) / 100
}

// dailyPoint is one entry of the dashboard's cumulative spend series.
type dailyPoint struct {
	Day   int     `json:"day"`
	Total float64 `json:"totalMonthExpensesTillToday"`
}

// Daily handles GET /api/expenses/daily. It serves the cumulative spend
// per day for the month of the newest recorded transaction; with no
// dated transactions the series is empty.
func (h *ExpensesHandler) Daily(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	rows, err := h.fetcher.FetchRows(r.Context())
	if err != nil {
		log.Error().Err(err).Msg("Failed to fetch expense records")
		middleware.WriteError(w, http.StatusServiceUnavailable, "Failed to fetch expense data")
		return
	}

	txs, _ := assistant.Normalize(rows)

	points := make([]dailyPoint, 0)
	if series, ok := assistant.CurrentMonthDaily(txs); ok {
		for _, dt := range series {
			points = append(points, dailyPoint{Day: dt.Day, Total: dt.Total})
		}
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expensesPerDayCurrentMonth": points,
	})
}
