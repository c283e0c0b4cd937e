package core

import (
	"time"
)

// BookAddedToCatalogEventType is the event type identifier.
const BookAddedToCatalogEventType = "BookAddedToCatalog"

// BookAddedToCatalog represents a book title entering the catalog with its number of copies.
type BookAddedToCatalog struct {
	EventType   EventTypeString
	BookID      BookIDString
	Title       string
	Author      string
	Category    string
	TotalCopies int
	OccurredAt  OccurredAt
}

// BuildBookAddedToCatalog creates a new BookAddedToCatalog event.
func BuildBookAddedToCatalog(bookID string, title string, author string, category string, totalCopies int, occurredAt time.Time) BookAddedToCatalog {
	return BookAddedToCatalog{
		EventType:   BookAddedToCatalogEventType,
		BookID:      bookID,
		Title:       title,
		Author:      author,
		Category:    category,
		TotalCopies: totalCopies,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e BookAddedToCatalog) IsEventType() string {
	return BookAddedToCatalogEventType
}

// HasOccurredAt returns when this event occurred.
func (e BookAddedToCatalog) HasOccurredAt() time.Time {
	return e.OccurredAt
}
