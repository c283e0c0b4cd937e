package approvedonation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "ApproveDonation"

// DonatedCategory is the catalog category of donated books.
const DonatedCategory = "Donated"

// Command represents an administrator accepting a submitted donation into the catalog.
type Command struct {
	DonationID uuid.UUID
	BookID     uuid.UUID
	OccurredAt core.OccurredAt
}

// BuildCommand creates a new Command. bookID is the catalog ID the donated book will get.
func BuildCommand(donationID uuid.UUID, bookID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		DonationID: donationID,
		BookID:     bookID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
