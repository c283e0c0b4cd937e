package pendingdonations

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for PendingDonations.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the donations nobody decided on yet.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (PendingDonations, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return PendingDonations{}, err
	}

	return ProjectPendingDonations(history, maxSequenceNumber), nil
}
