package core

import (
	"time"
)

// LoanRenewalApprovedEventType is the event type identifier.
const LoanRenewalApprovedEventType = "LoanRenewalApproved"

// LoanRenewalApproved represents an approved renewal; the loan is active again with a later due date.
type LoanRenewalApproved struct {
	EventType  EventTypeString
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	NewDueDate time.Time
	OccurredAt OccurredAt
}

// BuildLoanRenewalApproved creates a new LoanRenewalApproved event.
func BuildLoanRenewalApproved(loanID string, bookID string, borrowerID string, newDueDate time.Time, occurredAt time.Time) LoanRenewalApproved {
	return LoanRenewalApproved{
		EventType:  LoanRenewalApprovedEventType,
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		NewDueDate: ToOccurredAt(newDueDate),
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e LoanRenewalApproved) IsEventType() string {
	return LoanRenewalApprovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e LoanRenewalApproved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
