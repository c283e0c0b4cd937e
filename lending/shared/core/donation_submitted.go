package core

import (
	"time"
)

// DonationSubmittedEventType is the event type identifier.
const DonationSubmittedEventType = "DonationSubmitted"

// DonationSubmitted represents a member offering a book to the library. It waits for an administrator's decision.
type DonationSubmitted struct {
	EventType   EventTypeString
	DonationID  DonationIDString
	DonorID     MemberIDString
	Title       string
	Author      string
	Description string
	OccurredAt  OccurredAt
}

// BuildDonationSubmitted creates a new DonationSubmitted event.
func BuildDonationSubmitted(
	donationID string,
	donorID string,
	title string,
	author string,
	description string,
	occurredAt time.Time,
) DonationSubmitted {

	return DonationSubmitted{
		EventType:   DonationSubmittedEventType,
		DonationID:  donationID,
		DonorID:     donorID,
		Title:       title,
		Author:      author,
		Description: description,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e DonationSubmitted) IsEventType() string {
	return DonationSubmittedEventType
}

// HasOccurredAt returns when this event occurred.
func (e DonationSubmitted) HasOccurredAt() time.Time {
	return e.OccurredAt
}
