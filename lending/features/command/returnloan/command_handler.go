package returnloan

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// CommandHandler runs the Lookup -> Query -> Decide -> Append workflow for ReturnLoan with retry.
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

// Handle returns the loan, retrying with exponential backoff on concurrency conflicts.
// The loan return, the availability increment and the reservation notification are one atomic append.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return shell.HandleWithRetry(ctx, func(retryCtx context.Context) (bool, error) {
		return h.executeCommand(retryCtx, command)
	}, h.retryOptions...)
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	bookID, err := h.lookupBookID(ctx, command)
	if err != nil {
		return false, err
	}

	filter := BuildEventFilter(command.LoanID, bookID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	result := Decide(history, command)

	return shell.AppendDecision(ctx, h.eventStore, filter, maxSequenceNumber, result)
}

// lookupBookID finds the book of the loan. A loan never moves to another book,
// so this read needs no consistency guarantee with the append.
func (h CommandHandler) lookupBookID(ctx context.Context, command Command) (core.BookIDString, error) {
	history, _, err := shell.QueryHistory(ctx, h.eventStore, BuildLookupFilter(command.LoanID))
	if err != nil {
		return "", err
	}

	for _, event := range history {
		if opened, ok := event.(core.LoanOpened); ok {
			return opened.BookID, nil
		}
	}

	return "", fmt.Errorf("%w: loan %s", core.ErrNotFound, command.LoanID)
}
