package pointsbalance

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for PointsBalance.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the balance of the queried member. Unknown members have 0 points.
func (h QueryHandler) Handle(ctx context.Context, query Query) (PointsBalance, error) {
	if query.MemberID == "" {
		return PointsBalance{}, fmt.Errorf("%w: member is required", core.ErrValidation)
	}

	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.MemberID))
	if err != nil {
		return PointsBalance{}, err
	}

	return ProjectPointsBalance(history, query, maxSequenceNumber), nil
}
