package bookdetails

import (
	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// ProjectBookDetails folds the book's history into its catalog view.
// Returns core.ErrNotFound for unknown books.
func ProjectBookDetails(history core.DomainEvents, query Query, maxSequenceNumber uint) (BookDetails, error) {
	book, err := core.ProjectBook(history, query.BookID.String())
	if err != nil {
		return BookDetails{}, err
	}

	return BookDetails{Book: book, SequenceNumber: maxSequenceNumber}, nil
}

// BuildEventFilter selects the catalog entry and the loans of one book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.BookAddedToCatalogEventType,
			core.LoanOpenedEventType,
			core.LoanReturnedEventType,
		).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
