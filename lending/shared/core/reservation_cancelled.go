package core

import (
	"time"
)

// ReservationCancelledEventType is the event type identifier.
const ReservationCancelledEventType = "ReservationCancelled"

// ReservationCancelled represents a reservation being withdrawn by its requester or an administrator.
type ReservationCancelled struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	RequesterID   MemberIDString
	OccurredAt    OccurredAt
}

// BuildReservationCancelled creates a new ReservationCancelled event.
func BuildReservationCancelled(reservationID string, bookID string, requesterID string, occurredAt time.Time) ReservationCancelled {
	return ReservationCancelled{
		EventType:     ReservationCancelledEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		RequesterID:   requesterID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationCancelled) IsEventType() string {
	return ReservationCancelledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationCancelled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
