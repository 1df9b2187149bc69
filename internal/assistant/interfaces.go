package assistant

import (
	"context"
)

// RecordFetcher fetches the raw, loosely-typed expense rows from
// wherever they live. Implementations report failures through the
// sentinel errors in this package (ErrNotConfigured, ErrNotFound,
// ErrAccessDenied, ErrMalformedRecords); anything else is treated as a
// transport failure. This interface enables mocking in tests.
type RecordFetcher interface {
	FetchRows(ctx context.Context) ([]map[string]string, error)
}

// Completer turns an assembled prompt into an answer via an external
// text-generation model. Implementations classify failures with
// ErrAuth, ErrRateLimited and ErrPayloadTooLarge; anything else is a
// transport failure.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}
