package core

import (
	"time"
)

// LoanRenewalRequestedEventType is the event type identifier.
const LoanRenewalRequestedEventType = "LoanRenewalRequested"

// LoanRenewalRequested represents a request to extend the due date of an active loan.
type LoanRenewalRequested struct {
	EventType   EventTypeString
	LoanID      LoanIDString
	BookID      BookIDString
	BorrowerID  MemberIDString
	RequestedBy MemberIDString
	OccurredAt  OccurredAt
}

// BuildLoanRenewalRequested creates a new LoanRenewalRequested event.
func BuildLoanRenewalRequested(loanID string, bookID string, borrowerID string, requestedBy string, occurredAt time.Time) LoanRenewalRequested {
	return LoanRenewalRequested{
		EventType:   LoanRenewalRequestedEventType,
		LoanID:      loanID,
		BookID:      bookID,
		BorrowerID:  borrowerID,
		RequestedBy: requestedBy,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanRenewalRequested) IsEventType() string {
	return LoanRenewalRequestedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRenewalRequested) HasOccurredAt() time.Time {
	return e.OccurredAt
}
