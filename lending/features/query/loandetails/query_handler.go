package loandetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for LoanDetails.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the current state of the queried loan, or core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoanDetails, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.LoanID))
	if err != nil {
		return LoanDetails{}, err
	}

	return ProjectLoanDetails(history, query, maxSequenceNumber)
}
