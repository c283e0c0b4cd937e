package bookdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for BookDetails.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the catalog view of the queried book.
func (h QueryHandler) Handle(ctx context.Context, query Query) (BookDetails, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.BookID))
	if err != nil {
		return BookDetails{}, err
	}

	return ProjectBookDetails(history, query, maxSequenceNumber)
}
