package lendingstats

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for LendingStats.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the lending figures as of query.Now.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LendingStats, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return LendingStats{}, err
	}

	return ProjectLendingStats(history, query, maxSequenceNumber), nil
}
