package cancelreservation

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// CommandHandler runs the Lookup -> Query -> Decide -> Append workflow for CancelReservation with retry.
type CommandHandler struct {
	eventStore   shell.EventStore
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{eventStore: eventStore}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle executes the command with retry on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return shell.HandleWithRetry(ctx, func(retryCtx context.Context) (bool, error) {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	lookup, _, err := shell.QueryHistory(ctx, h.eventStore, BuildLookupFilter(command.ReservationID))
	if err != nil {
		return false, err
	}

	bookID, ok := bookOf(lookup, command.ReservationID.String())
	if !ok {
		return false, fmt.Errorf("%w: reservation %s", core.ErrNotFound, command.ReservationID)
	}

	filter := BuildEventFilter(bookID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	return shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, Decide(history, command))
}
