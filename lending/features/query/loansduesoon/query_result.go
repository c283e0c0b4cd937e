package loansduesoon

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// LoansDueSoon lists open loans ordered by due date.
type LoansDueSoon struct {
	Loans          []core.Loan
	Count          int
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r LoansDueSoon) GetSequenceNumber() uint {
	return r.SequenceNumber
}
