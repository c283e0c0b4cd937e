package bookdetails

import (
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// BookDetails is the catalog view of one book.
type BookDetails struct {
	core.Book
	SequenceNumber uint
}

// GetSequenceNumber returns the highest sequence number the projection has seen.
func (r BookDetails) GetSequenceNumber() uint {
	return r.SequenceNumber
}
