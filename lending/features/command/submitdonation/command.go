package submitdonation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "SubmitDonation"

// Command represents a member offering a book to the library.
type Command struct {
	DonationID  uuid.UUID
	DonorID     core.MemberIDString
	Title       string
	Author      string
	Description string
	OccurredAt  core.OccurredAt
}

// BuildCommand creates a new Command. donationID is chosen by the caller so that retries are idempotent.
func BuildCommand(
	donationID uuid.UUID,
	donorID string,
	title string,
	author string,
	description string,
	occurredAt time.Time,
) Command {

	return Command{
		DonationID:  donationID,
		DonorID:     donorID,
		Title:       title,
		Author:      author,
		Description: description,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
