package notifier

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// RoutingKeyDueSoon is the routing key of reminder messages.
const RoutingKeyDueSoon = "loan.due_soon"

// DueSoonReminder tells a borrower that a loan is due.
type DueSoonReminder struct {
	LoanID     core.LoanIDString   `json:"loanId"`
	BookID     core.BookIDString   `json:"bookId"`
	BorrowerID core.MemberIDString `json:"borrowerId"`
	DueDate    time.Time           `json:"dueDate"`
}

// ReminderFor builds the reminder for a loan.
func ReminderFor(loan core.Loan) DueSoonReminder {
	return DueSoonReminder{
		LoanID:     loan.LoanID,
		BookID:     loan.BookID,
		BorrowerID: loan.BorrowerID,
		DueDate:    loan.DueDate,
	}
}

// Publisher delivers reminders.
type Publisher interface {
	Publish(ctx context.Context, reminder DueSoonReminder) error
}
