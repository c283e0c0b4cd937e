package submitdonation

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of submitting a donation.
//
// Business Rules:
//
//	GIVEN: A member and the title of the offered book
//	WHEN: SubmitDonation command is received
//	THEN: DonationSubmitted event is generated, the donation is pending
//	ERROR: ErrValidation if donor or title are missing
//	IDEMPOTENCY: If a donation with the same ID was submitted before, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	donationID := command.DonationID.String()

	for _, event := range history {
		if submitted, ok := event.(core.DonationSubmitted); ok && submitted.DonationID == donationID {
			return core.IdempotentDecision()
		}
	}

	title := strings.TrimSpace(command.Title)

	if command.DonorID == "" || title == "" {
		return core.ErrorDecision(fmt.Errorf("%w: donation %s needs a donor and a title", core.ErrValidation, donationID))
	}

	return core.SuccessDecision(
		core.BuildDonationSubmitted(
			donationID,
			command.DonorID,
			title,
			strings.TrimSpace(command.Author),
			strings.TrimSpace(command.Description),
			command.OccurredAt,
		),
	)
}

// BuildEventFilter selects the submission of one donation.
func BuildEventFilter(donationID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.DonationSubmittedEventType).
		AndAnyPredicateOf(eventstore.P("DonationID", donationID.String())).
		Finalize()
}
