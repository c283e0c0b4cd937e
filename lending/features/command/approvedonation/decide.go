package approvedonation

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of approving a donation.
//
// Business Rules:
//
//	GIVEN: A pending donation
//	WHEN: ApproveDonation command is received
//	THEN: BookAddedToCatalog with the submitted title and author, one copy in category Donated
//	AND: DonationApproved crediting the donor
//	ERROR: ErrNotFound if the donation was never submitted
//	ERROR: ErrInvalidState if the donation was declined
//	IDEMPOTENCY: If the donation was approved before, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	donationID := command.DonationID.String()

	donation, err := core.ProjectDonation(history, donationID)
	if err != nil {
		return core.ErrorDecision(err)
	}

	switch donation.Status {
	case core.DonationStatusApproved:
		return core.IdempotentDecision()
	case core.DonationStatusDeclined:
		return core.ErrorDecision(fmt.Errorf("%w: donation %s was declined", core.ErrInvalidState, donationID))
	case core.DonationStatusPending:
	}

	bookID := command.BookID.String()

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(bookID, donation.Title, donation.Author, DonatedCategory, 1, command.OccurredAt),
		core.BuildDonationApproved(donationID, donation.DonorID, bookID, command.OccurredAt),
	)
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
