package pendingdonations

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// PendingDonations lists the donations in Pending, newest submission first.
type PendingDonations struct {
	Donations      []core.Donation
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r PendingDonations) GetSequenceNumber() uint {
	return r.SequenceNumber
}
