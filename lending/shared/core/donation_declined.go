package core

import (
	"time"
)

// DonationDeclinedEventType is the event type identifier.
const DonationDeclinedEventType = "DonationDeclined"

// DonationDeclined represents an administrator turning a donation down. Nothing is cataloged or credited.
type DonationDeclined struct {
	EventType  EventTypeString
	DonationID DonationIDString
	DonorID    MemberIDString
	OccurredAt OccurredAt
}

// BuildDonationDeclined creates a new DonationDeclined event.
func BuildDonationDeclined(donationID string, donorID string, occurredAt time.Time) DonationDeclined {
	return DonationDeclined{
		EventType:  DonationDeclinedEventType,
		DonationID: donationID,
		DonorID:    donorID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e DonationDeclined) IsEventType() string {
	return DonationDeclinedEventType
}

// HasOccurredAt returns when this event occurred.
func (e DonationDeclined) HasOccurredAt() time.Time {
	return e.OccurredAt
}
