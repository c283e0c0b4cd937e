package core

import (
	"time"
)

// BookReservedEventType is the event type identifier.
const BookReservedEventType = "BookReserved"

// BookReserved represents a member joining the reservation queue of a fully checked-out book.
type BookReserved struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	RequesterID   MemberIDString
	OccurredAt    OccurredAt
}

// BuildBookReserved creates a new BookReserved event.
func BuildBookReserved(reservationID string, bookID string, requesterID string, occurredAt time.Time) BookReserved {
	return BookReserved{
		EventType:     BookReservedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		RequesterID:   requesterID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookReserved) IsEventType() string {
	return BookReservedEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookReserved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
