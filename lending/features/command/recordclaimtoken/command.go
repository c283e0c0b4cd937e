package recordclaimtoken

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "RecordClaimToken"

// Command represents persisting the slip issuer's claim token on a loan.
type Command struct {
	LoanID     uuid.UUID
	ClaimToken string
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID, claimToken string, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		ClaimToken: claimToken,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
