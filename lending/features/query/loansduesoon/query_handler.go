package loansduesoon

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for LoansDueSoon.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the loans due soon. A negative window is rejected with core.ErrValidation.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoansDueSoon, error) {
	if query.WithinDays < 0 {
		return LoansDueSoon{}, fmt.Errorf("%w: withinDays must not be negative, got %d", core.ErrValidation, query.WithinDays)
	}

	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return LoansDueSoon{}, err
	}

	return ProjectLoansDueSoon(history, query, maxSequenceNumber), nil
}
