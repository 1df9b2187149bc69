package assistant

import (
	"errors"
	"fmt"
)

// Sentinel errors used by RecordFetcher implementations. The
// orchestrator matches them with errors.Is to pick the taxonomy kind.
var (
	ErrNotConfigured    = errors.New("records source not configured")
	ErrNotFound         = errors.New("records object not found")
	ErrAccessDenied     = errors.New("records access denied")
	ErrMalformedRecords = errors.New("records are structurally invalid")
)

// Sentinel errors used by Completer implementations.
var (
	ErrAuth            = errors.New("completion authentication failed")
	ErrRateLimited     = errors.New("completion rate limited")
	ErrPayloadTooLarge = errors.New("completion payload too large")
)

// Kind classifies a query failure at the orchestrator boundary.
type Kind string

const (
	KindConfiguration         Kind = "configuration"
	KindDataUnavailable       Kind = "data_unavailable"
	KindMalformedData         Kind = "malformed_data"
	KindNoValidData           Kind = "no_valid_data"
	KindCompletionAuth        Kind = "completion_auth"
	KindCompletionRateLimited Kind = "completion_rate_limited"
	KindCompletion            Kind = "completion"
)

// QueryError is the single error type the orchestrator returns. Every
// component-level failure is mapped to exactly one Kind; nothing
// escapes the orchestrator unclassified.
type QueryError struct {
	Kind Kind
	Err  error
}

func (e *QueryError) Error() string {
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *QueryError) Unwrap() error {
	return e.Err
}

// UserMessage returns the fixed user-facing message for the error kind.
// These are the answers a voice assistant reads out, so they stay short
// and apologetic rather than technical.
func (e *QueryError) UserMessage() string {
	switch e.Kind {
	case KindConfiguration:
		return "Sorry, the expense assistant is not set up correctly. Please try again later."
	case KindDataUnavailable:
		return "Sorry, I can't access your expense data right now. Please try again later."
	case KindMalformedData:
		return "Sorry, your expense data appears to be in an unexpected format, so I can't read it."
	case KindNoValidData:
		return "I couldn't find any expense data for that period."
	case KindCompletionAuth:
		return "Sorry, I couldn't authenticate with the answer service. Please try again later."
	case KindCompletionRateLimited:
		return "Sorry, I'm handling too many questions right now. Please try again in a moment."
	default:
		return "Sorry, something went wrong while answering your question. Please try again."
	}
}

func newQueryError(kind Kind, err error) *QueryError {
	return &QueryError{Kind: kind, Err: err}
}
