package core

import (
	"time"
)

// ReservationFulfilledEventType is the event type identifier.
const ReservationFulfilledEventType = "ReservationFulfilled"

// ReservationFulfilled represents a notified requester borrowing the book they reserved.
type ReservationFulfilled struct {
	EventType     EventTypeString
	ReservationID ReservationIDString
	BookID        BookIDString
	RequesterID   MemberIDString
	LoanID        LoanIDString
	OccurredAt    OccurredAt
}

// BuildReservationFulfilled creates a new ReservationFulfilled event.
func BuildReservationFulfilled(reservationID string, bookID string, requesterID string, loanID string, occurredAt time.Time) ReservationFulfilled {
	return ReservationFulfilled{
		EventType:     ReservationFulfilledEventType,
		ReservationID: reservationID,
		BookID:        bookID,
		RequesterID:   requesterID,
		LoanID:        loanID,
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ReservationFulfilled) IsEventType() string {
	return ReservationFulfilledEventType
}

// HasOccurredAt returns when this event occurred.
func (e ReservationFulfilled) HasOccurredAt() time.Time {
	return e.OccurredAt
}
