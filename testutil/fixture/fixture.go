package fixture

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/eventstore/memengine"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// Now is the fixed clock used by lending tests.
var Now = time.Date(2025, time.March, 10, 9, 30, 0, 0, time.UTC)

// GivenUniqueID returns a time-ordered UUID.
func GivenUniqueID(t testing.TB) uuid.UUID {
	t.Helper()

	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenEventStore returns an empty in-memory event store.
func GivenEventStore(t testing.TB) *memengine.EventStore {
	t.Helper()

	es, err := memengine.NewEventStore()
	require.NoError(t, err, "error in arranging test data")

	return es
}

// GivenEventsAppended appends the domain events one by one, unconditionally.
func GivenEventsAppended(t testing.TB, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	anyEvent := eventstore.BuildEventFilter().MatchingAnyEvent()

	for _, event := range events {
		storableEvents, err := shell.StorableEventsFrom(core.DomainEvents{event}, uuid.New())
		require.NoError(t, err, "error in arranging test data")

		_, maxSequenceNumber, err := es.Query(ctx, anyEvent)
		require.NoError(t, err, "error in arranging test data")

		err = es.Append(ctx, anyEvent, maxSequenceNumber, storableEvents[0])
		require.NoError(t, err, "error in arranging test data")
	}
}

// GivenBookInCatalog appends a BookAddedToCatalog event and returns the new book's ID.
func GivenBookInCatalog(t testing.TB, es shell.EventStore, totalCopies int) uuid.UUID {
	t.Helper()

	bookID := GivenUniqueID(t)
	GivenEventsAppended(t, es,
		core.BuildBookAddedToCatalog(bookID.String(), "Dune", "Frank Herbert", "Science Fiction", totalCopies, Now.Add(-30*24*time.Hour)),
	)

	return bookID
}

// GivenLoanOpened appends a LoanOpened event for bookID and returns the new loan's ID.
func GivenLoanOpened(t testing.TB, es shell.EventStore, bookID uuid.UUID, borrowerID string, borrowedAt time.Time, dueDate time.Time) uuid.UUID {
	t.Helper()

	loanID := GivenUniqueID(t)
	GivenEventsAppended(t, es,
		core.BuildLoanOpened(loanID.String(), bookID.String(), borrowerID, dueDate, borrowedAt),
	)

	return loanID
}

// GivenDonationSubmitted appends a DonationSubmitted event and returns the new donation's ID.
func GivenDonationSubmitted(t testing.TB, es shell.EventStore, donorID string, title string) uuid.UUID {
	t.Helper()

	donationID := GivenUniqueID(t)
	GivenEventsAppended(t, es,
		core.BuildDonationSubmitted(donationID.String(), donorID, title, "Jane Austen", "", Now.Add(-24*time.Hour)),
	)

	return donationID
}

// QueryDomainEvents returns all domain events matching filter.
func QueryDomainEvents(t testing.TB, es shell.QueriesEvents, filter eventstore.Filter) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := es.Query(context.Background(), filter)
	require.NoError(t, err, "error in asserting test data")

	domainEvents, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err, "error in asserting test data")

	return domainEvents
}

// AllEvents returns every domain event in the store.
func AllEvents(t testing.TB, es shell.QueriesEvents) core.DomainEvents {
	t.Helper()

	return QueryDomainEvents(t, es, eventstore.BuildEventFilter().MatchingAnyEvent())
}

// EventsOfType returns the events of type E in history, in order.
func EventsOfType[E core.DomainEvent](history core.DomainEvents) []E {
	var found []E

	for _, event := range history {
		if e, ok := event.(E); ok {
			found = append(found, e)
		}
	}

	return found
}
