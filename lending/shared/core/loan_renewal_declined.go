package core

import (
	"time"
)

// LoanRenewalDeclinedEventType is the event type identifier.
const LoanRenewalDeclinedEventType = "LoanRenewalDeclined"

// LoanRenewalDeclined represents a declined renewal; the loan is active again with its due date unchanged.
type LoanRenewalDeclined struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	OccurredAt OccurredAt
}

// BuildLoanRenewalDeclined creates a new LoanRenewalDeclined event.
func BuildLoanRenewalDeclined(loanID string, bookID string, borrowerID string, occurredAt time.Time) LoanRenewalDeclined {
	return LoanRenewalDeclined{
		EventType:  LoanRenewalDeclinedEventType,
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanRenewalDeclined) IsEventType() string {
	return LoanRenewalDeclinedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRenewalDeclined) HasOccurredAt() time.Time {
	return e.OccurredAt
}
