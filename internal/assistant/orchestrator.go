package assistant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State names the orchestrator's position in the query lifecycle.
// Errored is reachable from every non-terminal state.
type State string

const (
	StateIdle               State = "idle"
	StateFetchingRecords    State = "fetching_records"
	StateNormalizing        State = "normalizing"
	StateBuildingPrompt     State = "building_prompt"
	StateAwaitingCompletion State = "awaiting_completion"
	StateDone               State = "done"
	StateErrored            State = "errored"
)

// Orchestrator drives one user question through the pipeline:
// fetch raw rows, normalize, derive windows, aggregate, assemble the
// prompt, call the completion model. Each invocation owns its data
// exclusively; concurrent calls are fully independent.
type Orchestrator struct {
	fetcher   RecordFetcher
	completer Completer
	prompts   PromptBuilder
	log       zerolog.Logger
}

// NewOrchestrator wires the orchestrator's collaborators together.
func NewOrchestrator(fetcher RecordFetcher, completer Completer, prompts PromptBuilder, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{
		fetcher:   fetcher,
		completer: completer,
		prompts:   prompts,
		log:       log,
	}
}

// Answer runs the full pipeline for one question and returns the
// completion text verbatim. Every failure comes back as a *QueryError;
// callers can rely on UserMessage for the spoken reply.
func (o *Orchestrator) Answer(ctx context.Context, question string) (string, error) {
	queryID := uuid.NewString()
	log := o.log.With().Str("query_id", queryID).Logger()

	log.Info().Str("state", string(StateFetchingRecords)).Msg("Fetching raw records")
	rows, err := o.fetcher.FetchRows(ctx)
	if err != nil {
		qerr := classifyFetchError(err)
		log.Warn().Err(err).Str("state", string(StateErrored)).Msg("Record fetch failed")
		return "", qerr
	}

	log.Info().Str("state", string(StateNormalizing)).Int("raw_rows", len(rows)).Msg("Normalizing records")
	txs, diag := Normalize(rows)
	log.Info().
		Int("normalized", len(txs)).
		Int("dropped_empty", diag.DroppedEmptyRows).
		Int("coerced_amounts", diag.CoercedAmounts).
		Int("unparsed_dates", diag.UnparsedDates).
		Msg("Normalization complete")

	windows, ok := SelectWindows(txs)
	if !ok {
		log.Warn().Str("state", string(StateErrored)).Msg("No dated transactions survived normalization")
		return "", newQueryError(KindNoValidData, fmt.Errorf("answer: no dated transactions in %d rows", len(rows)))
	}

	log.Info().
		Str("state", string(StateBuildingPrompt)).
		Int("all_time", len(windows.AllTime.Transactions)).
		Int("last_week", len(windows.LastWeek.Transactions)).
		Int("last_month", len(windows.LastMonth.Transactions)).
		Msg("Building prompt")

	aggs := AggregateWindows(windows)
	payload := o.prompts.Build(windows, aggs, question)

	log.Info().
		Str("state", string(StateAwaitingCompletion)).
		Int("payload_bytes", payload.Size()).
		Msg("Calling completion")

	answer, err := o.completer.Complete(ctx, payload.Text)
	if errors.Is(err, ErrPayloadTooLarge) {
		// One retry with the reduced payload, only for the size failure.
		reduced := o.prompts.BuildReduced(windows, aggs, question)
		log.Info().
			Str("state", string(StateAwaitingCompletion)).
			Int("payload_bytes", reduced.Size()).
			Bool("reduced", true).
			Msg("Payload too large, retrying with reduced payload")
		answer, err = o.completer.Complete(ctx, reduced.Text)
	}
	if err != nil {
		qerr := classifyCompletionError(err)
		log.Warn().Err(err).Str("state", string(StateErrored)).Msg("Completion failed")
		return "", qerr
	}

	log.Info().Str("state", string(StateDone)).Msg("Query answered")
	return answer, nil
}

func classifyFetchError(err error) *QueryError {
	switch {
	case errors.Is(err, ErrNotConfigured):
		return newQueryError(KindConfiguration, err)
	case errors.Is(err, ErrMalformedRecords):
		return newQueryError(KindMalformedData, err)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrAccessDenied):
		return newQueryError(KindDataUnavailable, err)
	default:
		// Transport and anything else unexpected.
		return newQueryError(KindDataUnavailable, err)
	}
}

func classifyCompletionError(err error) *QueryError {
	switch {
	case errors.Is(err, ErrAuth):
		return newQueryError(KindCompletionAuth, err)
	case errors.Is(err, ErrRateLimited):
		return newQueryError(KindCompletionRateLimited, err)
	default:
		// A second size failure after the retry also lands here.
		return newQueryError(KindCompletion, err)
	}
}
