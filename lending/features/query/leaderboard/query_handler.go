package leaderboard

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for Leaderboard.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the leaderboard. The size must be positive.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Leaderboard, error) {
	if query.Size <= 0 {
		return Leaderboard{}, fmt.Errorf("%w: leaderboard size must be positive, got %d", core.ErrValidation, query.Size)
	}

	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter())
	if err != nil {
		return Leaderboard{}, err
	}

	return ProjectLeaderboard(history, query, maxSequenceNumber), nil
}
