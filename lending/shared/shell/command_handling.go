package shell

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ExecuteFunc runs one attempt of a command: query, decide, append.
// It reports idempotent=true when the decision had nothing to append.
type ExecuteFunc func(ctx context.Context) (idempotent bool, err error)

// HandleWithRetry runs execute with exponential backoff on concurrency conflicts
// and turns the outcome into a HandlerResult.
func HandleWithRetry(ctx context.Context, execute ExecuteFunc, retryOptions ...RetryOption) (HandlerResult, error) {
	var isIdempotent bool

	retryMetrics, err := RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		idempotent, execErr := execute(retryCtx)
		isIdempotent = idempotent

		return execErr
	}, retryOptions...)

	if err != nil {
		return NewErrorResult(retryMetrics), err
	}

	if isIdempotent {
		return NewIdempotentResult(retryMetrics), nil
	}

	return NewSuccessResult(retryMetrics), nil
}

// QueryHistory queries filter with strong consistency and converts the result to domain events.
func QueryHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	return ReadHistory(eventstore.WithStrongConsistency(ctx), eventStore, filter)
}

// ReadHistory queries filter with the consistency level carried by ctx and converts the result to domain events.
// Query handlers use it so that display reads can opt into replica reads.
func ReadHistory(
	ctx context.Context,
	eventStore QueriesEvents,
	filter eventstore.Filter,
) (core.DomainEvents, eventstore.MaxSequenceNumberUint, error) {

	storableEvents, maxSequenceNumber, err := eventStore.Query(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return nil, 0, err
	}

	return history, maxSequenceNumber, nil
}

// AppendDecision appends the events of result atomically, conditioned on filter
// still having maxSequenceNumber. Returns the decision error for rejected commands.
func AppendDecision(
	ctx context.Context,
	eventStore EventStore,
	filter eventstore.Filter,
	maxSequenceNumber eventstore.MaxSequenceNumberUint,
	result core.DecisionResult,
) (idempotent bool, err error) {

	if err := result.HasError(); err != nil {
		return false, err
	}

	if !result.HasEventsToAppend() {
		return true, nil
	}

	storableEvents, err := StorableEventsFrom(result.Events, CorrelationIDFrom(ctx))
	if err != nil {
		return false, err
	}

	return false, eventStore.Append(
		eventstore.WithStrongConsistency(ctx),
		filter,
		maxSequenceNumber,
		storableEvents[0],
		storableEvents[1:]...,
	)
}
