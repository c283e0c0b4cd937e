package loandetails

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// LoanDetails is the current state of one loan.
type LoanDetails struct {
	core.Loan
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r LoanDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
