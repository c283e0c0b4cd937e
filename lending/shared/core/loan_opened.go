package core

import (
	"time"
)

// LoanOpenedEventType is the event type identifier.
const LoanOpenedEventType = "LoanOpened"

// LoanOpened represents one copy of a book being checked out to a borrower.
type LoanOpened struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	DueDate    time.Time
	OccurredAt OccurredAt
}

// BuildLoanOpened creates a new LoanOpened event.
func BuildLoanOpened(loanID string, bookID string, borrowerID string, dueDate time.Time, occurredAt time.Time) LoanOpened {
	return LoanOpened{
		EventType:  LoanOpenedEventType,
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		DueDate:    ToOccurredAt(dueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanOpened) IsEventType() string {
	return LoanOpenedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanOpened) HasOccurredAt() time.Time {
	return e.OccurredAt
}
