package returnloan

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "ReturnLoan"

// Command represents the return of a borrowed copy.
type Command struct {
	LoanID     uuid.UUID
	FinePerDay int
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID, finePerDay int, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		FinePerDay: finePerDay,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
