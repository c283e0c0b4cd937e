package addbook

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const commandType = "AddBook"

// Command represents an administrator adding a title with its number of copies to the catalog.
type Command struct {
	BookID      uuid.UUID
	Title       string
	Author      string
	Category    string
	TotalCopies int
	OccurredAt  core.OccurredAt
}

// BuildCommand creates a new Command.
func BuildCommand(
	bookID uuid.UUID,
	title string,
	author string,
	category string,
	totalCopies int,
	occurredAt time.Time,
) Command {

	return Command{
		BookID:      bookID,
		Title:       title,
		Author:      author,
		Category:    category,
		TotalCopies: totalCopies,
		OccurredAt:  core.ToOccurredAt(occurredAt),
	}
}

// CommandType returns the command type name used as metric and log label.
func (c Command) CommandType() string {
	return commandType
}
