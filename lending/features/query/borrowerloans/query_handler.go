package borrowerloans

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for BorrowerLoans.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the loan history of the queried member.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BorrowerLoans, error) {
	if query.BorrowerID == "" {
		// an empty predicate would be dropped from the filter and match every member
		return BorrowerLoans{}, fmt.Errorf("%w: borrower is required", core.ErrValidation)
	}

	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.BorrowerID))
	if err != nil {
		return BorrowerLoans{}, err
	}

	return ProjectBorrowerLoans(history, query, maxSequenceNumber), nil
}
