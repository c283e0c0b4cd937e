package reservationdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for ReservationDetails.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the current state of the queried reservation, or core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ReservationDetails, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.ReservationID))
	if err != nil {
		return ReservationDetails{}, err
	}

	return ProjectReservationDetails(history, query, maxSequenceNumber)
}
