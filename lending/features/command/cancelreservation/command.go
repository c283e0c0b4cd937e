package cancelreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "CancelReservation"

// Command represents the withdrawal of a reservation by its requester or an administrator.
type Command struct {
	ReservationID    uuid.UUID
	RequesterID      core.MemberIDString
	RequesterIsAdmin bool
	OccurredAt       core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(reservationID uuid.UUID, requesterID string, requesterIsAdmin bool, occurredAt time.Time) Command {
	return Command{
		ReservationID:    reservationID,
		RequesterID:      requesterID,
		RequesterIsAdmin: requesterIsAdmin,
		OccurredAt:       core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
