package borrowbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "BorrowBook"

// Command represents the intent of a member to borrow one copy of a book.
// LoanID is chosen by the caller, so a retried request with the same LoanID is idempotent.
type Command struct {
	LoanID     uuid.UUID
	BookID     uuid.UUID
	BorrowerID core.MemberIDString
	DueDate    time.Time
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command. The due date is occurredAt plus loanPeriod.
func BuildCommand(
	loanID uuid.UUID,
	bookID uuid.UUID,
	borrowerID string,
	loanPeriod time.Duration,
	occurredAt time.Time,
) Command {

	at := core.ToOccurredAt(occurredAt)

	return Command{
		LoanID:     loanID,
		BookID:     bookID,
		BorrowerID: borrowerID,
		DueDate:    at.Add(loanPeriod),
		OccurredAt: at,
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
