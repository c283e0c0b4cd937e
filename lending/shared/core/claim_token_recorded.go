package core

import (
	"time"
)

// ClaimTokenRecordedEventType is the event type identifier.
const ClaimTokenRecordedEventType = "ClaimTokenRecorded"

// ClaimTokenRecorded represents the slip claim token being stored on a loan.
type ClaimTokenRecorded struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	ClaimToken string
	OccurredAt OccurredAt
}

// BuildClaimTokenRecorded creates a new ClaimTokenRecorded event.
func BuildClaimTokenRecorded(loanID string, bookID string, borrowerID string, claimToken string, occurredAt time.Time) ClaimTokenRecorded {
	return ClaimTokenRecorded{
		EventType:  ClaimTokenRecordedEventType,
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		ClaimToken: claimToken,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e ClaimTokenRecorded) IsEventType() string {
	return ClaimTokenRecordedEventType
}

// HasOccurredAt returns when this event occurred.
func (e ClaimTokenRecorded) HasOccurredAt() time.Time {
	return e.OccurredAt
}
