package pendingrenewals

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for PendingRenewals.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the loans with a pending renewal request.
func (h QueryHandler) Handle(ctx context.Context, _ Query) (PendingRenewals, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return PendingRenewals{}, err
	}

	return ProjectPendingRenewals(history, maxSequenceNumber), nil
}
