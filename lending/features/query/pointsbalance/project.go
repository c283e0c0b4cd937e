package pointsbalance

import (
	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectPointsBalance folds the member's loan and donation events into their balance.
func ProjectPointsBalance(history core.DomainEvents, query Query, maxSequenceNumber uint) PointsBalance {
	return PointsBalance{
		MemberID:       query.MemberID,
		Points:         core.ProjectPointsLedger(history).BalanceOf(query.MemberID),
		SequenceNumber: maxSequenceNumber,
	}
}

// BuildEventFilter selects the point-earning events of one member: their loans and their donations.
func BuildEventFilter(memberID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BorrowerID", memberID)).
		OrMatching().
		AnyEventTypeOf(core.DonationApprovedEventType).
		AndAnyPredicateOf(eventstore.P("DonorID", memberID)).
		Finalize()
}
