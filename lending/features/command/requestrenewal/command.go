package requestrenewal

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "RequestRenewal"

// Command represents a request to extend a loan by one more loan period.
type Command struct {
	LoanID           uuid.UUID
	RequesterID      core.MemberIDString
	RequesterIsAdmin bool
	OccurredAt       core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(loanID uuid.UUID, requesterID string, requesterIsAdmin bool, occurredAt time.Time) Command {
	return Command{
		LoanID:           loanID,
		RequesterID:      requesterID,
		RequesterIsAdmin: requesterIsAdmin,
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
