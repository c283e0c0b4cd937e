package declinedonation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "DeclineDonation"

// Command represents an administrator turning down a pending donation.
type Command struct {
	DonationID uuid.UUID
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(donationID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		DonationID: donationID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
