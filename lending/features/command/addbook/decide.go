package addbook

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// Decide implements the business logic of adding a book to the catalog.
//
// Business Rules:
//
//	GIVEN: A BookID that is not in the catalog
//	WHEN: AddBook command is received
//	THEN: BookAddedToCatalog event is generated with all copies available
//	ERROR: ErrValidation if the title is empty or the number of copies is negative
//	IDEMPOTENCY: If the book is already in the catalog, no event generated (no-op)
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	bookID := command.BookID.String()

	for _, event := range history {
		if added, ok := event.(core.BookAddedToCatalog); ok && added.BookID == bookID {
			return core.IdempotentDecision()
		}
	}

	if command.Title == "" {
		return core.ErrorDecision(fmt.Errorf("%w: title is required", core.ErrValidation))
	}

	if command.TotalCopies < 0 {
		return core.ErrorDecision(fmt.Errorf("%w: total copies must not be negative", core.ErrValidation))
	}

	return core.SuccessDecision(
		core.BuildBookAddedToCatalog(
			bookID, command.Title, command.Author, command.Category, command.TotalCopies, command.OccurredAt),
	)
}

// BuildEventFilter selects the catalog entry of one book.
func BuildEventFilter(bookID uuid.UUID) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.BookAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("BookID", bookID.String())).
		Finalize()
}
