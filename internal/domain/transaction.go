package domain

import (
	"strings"
	"time"
)

// ExpenseType is the precomputed classification tag attached to each
// transaction by the upstream classifier. Anything that is not a
// recognised value collapses to ExpenseTypeUnknown.
type ExpenseType string

const (
	ExpenseTypeNeed    ExpenseType = "need"
	ExpenseTypeWant    ExpenseType = "want"
	ExpenseTypeUnknown ExpenseType = "unknown"
)

// ParseExpenseType matches case-insensitively and trims whitespace.
func ParseExpenseType(s string) ExpenseType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "need":
		return ExpenseTypeNeed
	case "want":
		return ExpenseTypeWant
	default:
		return ExpenseTypeUnknown
	}
}

// CategoryUncategorized is the sentinel category for rows that carry none.
const CategoryUncategorized = "uncategorized"

// Transaction represents one normalized expense row. Normalization
// produces a fresh value per source row; instances are never mutated
// after that.
type Transaction struct {
	Amount      float64   // from "amount"; 0 when the source value is not numeric
	Date        time.Time // parsed from "date" (YYYY-MM-DD, fallback DD/MM/YYYY)
	DateValid   bool      // false when the source date could not be parsed
	Category    string    // from "category", defaults to "uncategorized"
	Description string    // from "description/merchant", defaults to empty
	ExpenseType ExpenseType
}
