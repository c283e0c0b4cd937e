package donationdetails

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectDonationDetails folds the donation's history into its current state.
func ProjectDonationDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (DonationDetails, error) {
	donation, err := core.ProjectDonation(history, query.DonationID.String())
	if err != nil {
		return DonationDetails{}, err
	}

	return DonationDetails{Donation: donation, SequenceNumber: maxSequenceNumber}, nil
}

// BuildEventFilter selects all events of one donation.
func BuildEventFilter(donationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.DonationSubmittedEventType,
			core.DonationApprovedEventType,
			core.DonationDeclinedEventType,
		).
		AndAnyPredicateOf(eventstore.P("DonationID", donationID.String())).
		Finalize()
}
