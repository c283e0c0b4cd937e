package reservationqueue

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for ReservationQueue.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the pending reservations of the queried book. An unknown book has an empty queue.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ReservationQueue, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.BookID))
	if err != nil {
		return ReservationQueue{}, err
	}

	return ProjectReservationQueue(history, query, maxSequenceNumber), nil
}
