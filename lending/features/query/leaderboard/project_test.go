package leaderboard_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/leaderboard"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

func Test_ProjectLeaderboard_RanksByPointsThenMemberID(t *testing.T) {
	// arrange
	history := core.DomainEvents{
		core.BuildLoanOpened("loan-1", "book-1", "carol", fixture.Now, fixture.Now),
		core.BuildDonationApproved("donation-1", "bob", "book-2", fixture.Now),
		core.BuildLoanOpened("loan-2", "book-1", "alice", fixture.Now, fixture.Now),
		core.BuildLoanOpened("loan-3", "book-3", "dave", fixture.Now, fixture.Now),
	}

	// act
	result := leaderboard.ProjectLeaderboard(history, leaderboard.BuildQuery(3), 4)

	// assert
	require.Len(t, result.Entries, 3, "Should cut the list at the requested size")
	assert.Equal(t, leaderboard.Entry{Rank: 1, MemberID: "bob", Points: core.PointsForDonation}, result.Entries[0])
	assert.Equal(t, leaderboard.Entry{Rank: 2, MemberID: "alice", Points: core.PointsForBorrow}, result.Entries[1])
	assert.Equal(t, leaderboard.Entry{Rank: 3, MemberID: "carol", Points: core.PointsForBorrow}, result.Entries[2])
}

func Test_QueryHandler_Handle_RejectsNonPositiveSize(t *testing.T) {
	// act
	_, err := leaderboard.NewQueryHandler(fixture.GivenEventStore(t)).Handle(context.Background(), leaderboard.BuildQuery(0))

	// assert
	assert.ErrorIs(t, err, core.ErrValidation)
}
