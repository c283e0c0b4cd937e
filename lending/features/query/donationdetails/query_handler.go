package donationdetails

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// QueryHandler runs Query -> Unmarshal -> Project for DonationDetails.
type QueryHandler struct {
	eventStore shell.QueriesEvents
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.QueriesEvents) QueryHandler {
	return QueryHandler{eventStore: eventStore}
}

// Handle returns the current state of the queried donation, or core.ErrNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (DonationDetails, error) {
	history, maxSequenceNumber, err := shell.ReadHistory(ctx, h.eventStore, BuildEventFilter(query.DonationID))
	if err != nil {
		return DonationDetails{}, err
	}

	return ProjectDonationDetails(history, query, maxSequenceNumber)
}
