package core

import (
	"time"
)

// DonationApprovedEventType is the event type identifier.
const DonationApprovedEventType = "DonationApproved"

// DonationApproved represents an approved book donation, which credits the donor with points.
type DonationApproved struct {
	EventType  EventTypeString
	DonationID DonationIDString
	DonorID    MemberIDString
	BookID     BookIDString
	OccurredAt OccurredAt
}

// BuildDonationApproved creates a new DonationApproved event.
func BuildDonationApproved(donationID string, donorID string, bookID string, occurredAt time.Time) DonationApproved {
	return DonationApproved{
		EventType:  DonationApprovedEventType,
		DonationID: donationID,
		DonorID:    donorID,
		BookID:     bookID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

// IsEventType returns the event type identifier.
func (e DonationApproved) IsEventType() string {
	return DonationApprovedEventType
}

// HasOccurredAt returns when this event occurred.
func (e DonationApproved) HasOccurredAt() time.Time {
	return e.OccurredAt
}
