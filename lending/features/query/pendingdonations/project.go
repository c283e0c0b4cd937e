package pendingdonations

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectPendingDonations selects the donations waiting for an administrator's decision.
func ProjectPendingDonations(history core.DomainEvents, maxSequenceNumber uint) PendingDonations {
	pending := slices.DeleteFunc(core.ProjectDonations(history), func(d core.Donation) bool {
		return !d.IsPending()
	})

	slices.SortFunc(pending, func(a, b core.Donation) int {
		if c := b.SubmittedAt.Compare(a.SubmittedAt); c != 0 {
			return c
		}

		return strings.Compare(a.DonationID, b.DonationID)
	})

	return PendingDonations{
		Donations:      pending,
		Count:          len(pending),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the lifecycle events of all donations.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.DonationSubmittedEventType,
			core.DonationApprovedEventType,
			core.DonationDeclinedEventType,
		).
		Finalize()
}
