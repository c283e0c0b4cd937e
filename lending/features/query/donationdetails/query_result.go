package donationdetails

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// DonationDetails is the current state of one donation.
type DonationDetails struct {
	core.Donation
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r DonationDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
