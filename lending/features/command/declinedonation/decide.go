package declinedonation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of declining a donation.
//
// Business Rules:
//
//	GIVEN: A pending donation
//	WHEN: DeclineDonation command is received
//	THEN: DonationDeclined event is generated
//	ERROR: ErrNotFound if the donation was never submitted
//	ERROR: ErrInvalidState if the donation was approved
//	IDEMPOTENCY: If the donation was declined before, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	donationID := command.DonationID.String()

	donation, err := core.ProjectDonation(history, donationID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	switch donation.Status {
	case core.DonationStatusDeclined:
		return core.IdempotentDecision()
	case core.DonationStatusApproved:
		return core.ErrorDecision(fmt.Errorf("%w: donation %s was approved", core.ErrInvalidState, donationID))
	case core.DonationStatusPending:
	}

	return core.SuccessDecision(core.BuildDonationDeclined(donationID, donation.DonorID, command.OccurredAt))
}

// BuildEventFilter selects the lifecycle events of one donation.
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
