package donationdetails_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/donationdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
)

func Test_QueryHandler_Handle_ReturnsDeclinedDonation(t *testing.T) {
	// arrange
	es := fixture.GivenEventStore(t)
	donationID := fixture.GivenDonationSubmitted(t, es, "dora", "Emma")
	fixture.GivenDonationSubmitted(t, es, "erin", "Persuasion")
	fixture.GivenEventsAppended(t, es, core.BuildDonationDeclined(donationID.String(), "dora", fixture.Now))

	// act
	result, err := donationdetails.NewQueryHandler(es).Handle(context.Background(), donationdetails.BuildQuery(donationID))

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.DonationStatusDeclined, result.Status)
	assert.Equal(t, "Emma", result.Title, "Should not mix in other donations")
	require.NotNil(t, result.DecidedAt)
	assert.Equal(t, fixture.Now, *result.DecidedAt)
}

func Test_QueryHandler_Handle_UnknownDonation(t *testing.T) {
	// act
	_, err := donationdetails.NewQueryHandler(fixture.GivenEventStore(t)).Handle(context.Background(), donationdetails.BuildQuery(fixture.GivenUniqueID(t)))

	// assert
	assert.ErrorIs(t, err, core.ErrNotFound)
}
