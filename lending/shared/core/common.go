package core

import (
	"time"
)

// Plain string aliases instead of full value objects. Validation happens in the command builders.

// BookIDString represents a book identifier.
type BookIDString = string

// LoanIDString represents a loan identifier.
type LoanIDString = string

// ReservationIDString represents a reservation identifier.
type ReservationIDString = string

// DonationIDString represents a donation identifier.
type DonationIDString = string

// MemberIDString represents a library member (borrower, requester, donor).
type MemberIDString = string

// EventTypeString represents the type name of a domain event.
type EventTypeString = string

// OccurredAt represents when an event occurred.
type OccurredAt = time.Time

// ToOccurredAt converts a time to OccurredAt with UTC normalization and microsecond precision,
// which is what PostgreSQL's timestamptz keeps.
func ToOccurredAt(t time.Time) OccurredAt {
	return t.UTC().Truncate(time.Microsecond)
}
