package borrowerloans

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// BorrowerLoans is the loan history of one member, newest first.
type BorrowerLoans struct {
	BorrowerID     core.MemberIDString
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r BorrowerLoans) GetSequenceNumber() uint {
	return r.SequenceNumber
}
