package assistant

import (
	"strconv"
	"strings"
	"time"

	"github.com/dvloznov/expense-assistant/internal/domain"
)

// fieldAliases maps each canonical field to the ordered list of source
// keys it may appear under. Resolution tries each alias in order and
// falls back to the field's default, so a missing key never fails a row.
// The "description/merchant" and "predicted_expense_type" spellings come
// from the upstream classifier's CSV output.
var fieldAliases = map[string][]string{
	"amount":       {"amount", "Amount", "AMOUNT"},
	"date":         {"date", "Date", "DATE"},
	"category":     {"category", "Category", "CATEGORY"},
	"description":  {"description/merchant", "Description/Merchant", "description", "Description", "merchant", "Merchant"},
	"expense_type": {"predicted_expense_type", "Predicted_Expense_Type", "PREDICTED_EXPENSE_TYPE"},
}

// dateFormats are tried in order. The classifier emits ISO dates but
// older exports used day-first.
var dateFormats = []string{"2006-01-02", "02/01/2006"}

// Diagnostics counts row-level anomalies observed during normalization.
// Anomalies are reported here, never as errors; normalization must not
// abort on partial bad data.
type Diagnostics struct {
	InputRows        int
	DroppedEmptyRows int
	CoercedAmounts   int
	UnparsedDates    int
}

// Normalize turns raw string-keyed rows into canonical transactions.
// Output length is always <= input length: rows whose every value is
// empty are dropped silently (and counted). All other anomalies keep
// the row: a non-numeric amount is coerced to 0 and an unparseable date
// leaves DateValid false. The source rows are never mutated.
func Normalize(rows []map[string]string) ([]domain.Transaction, Diagnostics) {
	diag := Diagnostics{InputRows: len(rows)}
	txs := make([]domain.Transaction, 0, len(rows))

	for _, row := range rows {
		if rowIsEmpty(row) {
			diag.DroppedEmptyRows++
			continue
		}

		tx := domain.Transaction{
			Category:    domain.CategoryUncategorized,
			ExpenseType: domain.ExpenseTypeUnknown,
		}

		if raw, ok := resolveField(row, "amount"); ok {
			amount, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				diag.CoercedAmounts++
			} else {
				tx.Amount = amount
			}
		}

		if raw, ok := resolveField(row, "date"); ok {
			if parsed, err := parseDate(raw); err != nil {
				diag.UnparsedDates++
			} else {
				tx.Date = parsed
				tx.DateValid = true
			}
		} else {
			diag.UnparsedDates++
		}

		if raw, ok := resolveField(row, "category"); ok {
			tx.Category = raw
		}
		if raw, ok := resolveField(row, "description"); ok {
			tx.Description = raw
		}
		if raw, ok := resolveField(row, "expense_type"); ok {
			tx.ExpenseType = domain.ParseExpenseType(raw)
		}

		txs = append(txs, tx)
	}

	return txs, diag
}

// resolveField looks the canonical field up through its alias list and
// returns the first non-empty value found.
func resolveField(row map[string]string, canonical string) (string, bool) {
	for _, alias := range fieldAliases[canonical] {
		if v, ok := row[alias]; ok {
			trimmed := strings.TrimSpace(v)
			if trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

func rowIsEmpty(row map[string]string) bool {
	for _, v := range row {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseDate(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range dateFormats {
		parsed, err := time.Parse(layout, strings.TrimSpace(raw))
		if err == nil {
			return parsed, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
