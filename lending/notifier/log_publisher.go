package notifier

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

const logMsgReminder = "due soon reminder"

// LogPublisher only logs reminders. It is used when no broker is configured.
type LogPublisher struct {
	logger shell.ContextualLogger
}

// NewLogPublisher creates a LogPublisher.
func NewLogPublisher(logger shell.ContextualLogger) LogPublisher {
	return LogPublisher{logger: logger}
}

// Publish logs the reminder at info level.
func (p LogPublisher) Publish(ctx context.Context, reminder DueSoonReminder) error {
	p.logger.InfoContext(
		ctx,
		logMsgReminder,
		logAttrLoanID, reminder.LoanID,
		"book_id", reminder.BookID,
		"borrower_id", reminder.BorrowerID,
		"due_date", reminder.DueDate,
	)

	return nil
}
