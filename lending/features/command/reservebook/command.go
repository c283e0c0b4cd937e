package reservebook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "ReserveBook"

// Command represents a member queueing up for a book that is fully lent out.
type Command struct {
	ReservationID uuid.UUID
	BookID        uuid.UUID
	RequesterID   core.MemberIDString
	OccurredAt    core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(reservationID uuid.UUID, bookID uuid.UUID, requesterID string, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		BookID:        bookID,
		RequesterID:   requesterID,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
