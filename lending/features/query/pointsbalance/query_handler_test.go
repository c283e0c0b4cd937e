package pointsbalance_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pointsbalance"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

//nolint:funlen
func Test_QueryHandler_Handle(t *testing.T) {
	testCases := []struct {
		name     string
		arrange  func(t *testing.T, history core.DomainEvents) core.DomainEvents
		expected int
	}{
		{
			name:     "no activity",
			arrange:  func(_ *testing.T, h core.DomainEvents) core.DomainEvents { return h },
			expected: 0,
		},
		{
			name: "borrow and return on time",
			arrange: func(_ *testing.T, h core.DomainEvents) core.DomainEvents {
				return append(h,
					core.BuildLoanOpened("loan-1", "book-1", "alice", fixture.Now, fixture.Now.Add(-time.Hour)),
					core.BuildLoanReturned("loan-1", "book-1", "alice", 0, 0, fixture.Now))
			},
			expected: core.PointsForBorrow + core.PointsForOnTimeReturn,
		},
		{
			name: "late return costs the fine",
			arrange: func(_ *testing.T, h core.DomainEvents) core.DomainEvents {
				return append(h,
					core.BuildLoanOpened("loan-1", "book-1", "alice", fixture.Now, fixture.Now.Add(-time.Hour)),
					core.BuildLoanReturned("loan-1", "book-1", "alice", 3, 6, fixture.Now.Add(72*time.Hour)))
			},
			expected: core.PointsForBorrow - 6,
		},
		{
			name: "fine never drives the balance negative",
			arrange: func(_ *testing.T, h core.DomainEvents) core.DomainEvents {
				return append(h,
					core.BuildLoanOpened("loan-1", "book-1", "alice", fixture.Now, fixture.Now.Add(-time.Hour)),
					core.BuildLoanReturned("loan-1", "book-1", "alice", 30, 60, fixture.Now.Add(720*time.Hour)))
			},
			expected: 0,
		},
		{
			name: "donation and other members",
			arrange: func(_ *testing.T, h core.DomainEvents) core.DomainEvents {
				return append(h,
					core.BuildDonationApproved("donation-1", "alice", "book-9", fixture.Now),
					core.BuildLoanOpened("loan-2", "book-1", "bob", fixture.Now, fixture.Now.Add(-time.Hour)),
					core.BuildDonationApproved("donation-2", "bob", "book-8", fixture.Now))
			},
			expected: core.PointsForDonation,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			es := fixture.GivenEventStore(t)
			fixture.GivenEventsAppended(t, es, tc.arrange(t, core.DomainEvents{})...)

			// act
			result, err := pointsbalance.NewQueryHandler(es).Handle(context.Background(), pointsbalance.BuildQuery("alice"))

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.expected, result.Points)
		})
	}
}
