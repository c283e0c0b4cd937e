package pendingrenewals

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// PendingRenewals lists the loans in RenewalRequested, earliest due date first.
type PendingRenewals struct {
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r PendingRenewals) GetSequenceNumber() uint {
	return r.SequenceNumber
}
