package deciderenewal

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "DecideRenewal"

// Decision is an administrator's answer to a renewal request.
type Decision string

const (
	// Approve extends the due date by one loan period.
	Approve Decision = "approve"

	// Decline keeps the due date.
	Decline Decision = "decline"
)

// Command represents an administrator's decision on a pending renewal.
type Command struct {
	LoanID     uuid.UUID
	Decision   Decision
	LoanPeriod time.Duration
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID, decision Decision, loanPeriod time.Duration, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		Decision:   decision,
		LoanPeriod: loanPeriod,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
