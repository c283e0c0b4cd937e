package leaderboard

import (
	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectLeaderboard folds all point-earning events into the top query.Size members.
func ProjectLeaderboard(history core.DomainEvents, query Query, maxSequenceNumber uint) Leaderboard {
	top := core.ProjectPointsLedger(history).Top(query.Size)

	entries := make([]Entry, 0, len(top))
	for i, row := range top {
		entries = append(entries, Entry{Rank: i + 1, MemberID: row.MemberID, Points: row.Points})
	}

	return Leaderboard{Entries: entries, SequenceNumber: maxSequenceNumber}
}

// BuildEventFilter selects every point-earning event.
func BuildEventFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
			core.DonationApprovedEventType,
		).
		Finalize()
}
