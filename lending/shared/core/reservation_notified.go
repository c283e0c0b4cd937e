package core

import (
	"time"
)

// ReservationNotifiedEventType is the event type identifier.
const ReservationNotifiedEventType = "ReservationNotified"

// ReservationNotified represents the oldest pending reservation being told that a copy was returned.
// LoanID is the returned loan that freed the copy.
type ReservationNotified struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	RequesterID   MemberIDString
	LoanID        LoanIDString
	OccurredAt    OccurredAt
}

// BuildReservationNotified creates a new ReservationNotified event.
func BuildReservationNotified(reservationID string, bookID string, requesterID string, loanID string, occurredAt time.Time) ReservationNotified {
	return ReservationNotified{
		EventType:     ReservationNotifiedEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		RequesterID:   requesterID,
		LoanID:        loanID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationNotified) IsEventType() string {
	return ReservationNotifiedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationNotified) HasOccurredAt() time.Time {
	return e.OccurredAt
}
