package gcs

import (
	"context"
	"errors"
	"testing"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"

	"github.com/dvloznov/expense-assistant/internal/assistant"
)

func TestFetchRows_NotConfigured(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *CSVFetcher
	}{
		{"empty bucket", NewCSVFetcher("", "expenses.csv")},
		{"empty object", NewCSVFetcher("my-bucket", "")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.fetcher.FetchRows(context.Background())
			if !errors.Is(err, assistant.ErrNotConfigured) {
				t.Errorf("error = %v, want ErrNotConfigured", err)
			}
		})
	}
}

func TestClassifyStorageError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantIs  error
		wantRaw bool
	}{
		{"object not exist", storage.ErrObjectNotExist, assistant.ErrNotFound, false},
		{"bucket not exist", storage.ErrBucketNotExist, assistant.ErrNotFound, false},
		{"403", &googleapi.Error{Code: 403}, assistant.ErrAccessDenied, false},
		{"401", &googleapi.Error{Code: 401}, assistant.ErrAccessDenied, false},
		{"404", &googleapi.Error{Code: 404}, assistant.ErrNotFound, false},
		{"500 stays transport", &googleapi.Error{Code: 500}, nil, true},
		{"plain error stays transport", errors.New("dial tcp: timeout"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := classifyStorageError(tt.err)
			if tt.wantRaw {
				if !errors.Is(got, tt.err) {
					t.Errorf("classifyStorageError() = %v, want the original error", got)
				}
				for _, sentinel := range []error{assistant.ErrNotFound, assistant.ErrAccessDenied} {
					if errors.Is(got, sentinel) {
						t.Errorf("transport error classified as %v", sentinel)
					}
				}
				return
			}
			if !errors.Is(got, tt.wantIs) {
				t.Errorf("classifyStorageError() = %v, want %v", got, tt.wantIs)
			}
		})
	}
}

func TestParseCSV(t *testing.T) {
	t.Run("maps header to row keys", func(t *testing.T) {
		data := []byte("amount,date,category,description/merchant,predicted_expense_type\n" +
			"50,2025-03-22,Groceries,Tesco,need\n" +
			"20,2025-05-10,,,want\n")

		rows, err := parseCSV(data)
		if err != nil {
			t.Fatalf("parseCSV returned error: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("parseCSV returned %d rows, want 2", len(rows))
		}
		if rows[0]["amount"] != "50" || rows[0]["description/merchant"] != "Tesco" {
			t.Errorf("first row mismatch: %+v", rows[0])
		}
		if rows[1]["predicted_expense_type"] != "want" {
			t.Errorf("second row mismatch: %+v", rows[1])
		}
	})

	t.Run("ragged short rows omit trailing fields", func(t *testing.T) {
		rows, err := parseCSV([]byte("amount,date,category\n15,2025-01-02\n"))
		if err != nil {
			t.Fatalf("parseCSV returned error: %v", err)
		}
		if _, ok := rows[0]["category"]; ok {
			t.Errorf("short row carries a category key: %+v", rows[0])
		}
	})

	t.Run("empty file is malformed", func(t *testing.T) {
		if _, err := parseCSV(nil); err == nil {
			t.Error("parseCSV(nil) returned no error")
		}
	})

	t.Run("header only yields no rows", func(t *testing.T) {
		rows, err := parseCSV([]byte("amount,date\n"))
		if err != nil {
			t.Fatalf("parseCSV returned error: %v", err)
		}
		if len(rows) != 0 {
			t.Errorf("parseCSV returned %d rows, want 0", len(rows))
		}
	})
}
