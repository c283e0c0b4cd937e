package core

import (
	"time"
)

// LoanReturnedEventType is the event type identifier.
const LoanReturnedEventType = "LoanReturned"

// LoanReturned represents a borrowed copy coming back, together with the fine that was charged.
type LoanReturned struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	DaysLate   int
	Fine       int
	OccurredAt OccurredAt
}

// BuildLoanReturned creates a new LoanReturned event.
func BuildLoanReturned(loanID string, bookID string, borrowerID string, daysLate int, fine int, occurredAt time.Time) LoanReturned {
	return LoanReturned{
		EventType:  LoanReturnedEventType,
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		DaysLate:   daysLate,
		Fine:       fine,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanReturned) IsEventType() string {
	return LoanReturnedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanReturned) HasOccurredAt() time.Time {
	return e.OccurredAt
}
