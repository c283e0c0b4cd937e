package core

import (
	"fmt"
)

// Book is the catalog view of a title and its copy counts.
type Book struct {
	BookID          BookIDString
	Title           string
	Author          string
	Category        string
	TotalCopies     int
	AvailableCopies int
}

// AdjustAvailability returns the book with AvailableCopies changed by delta.
// It is the only way availability changes and fails with ErrInvariantViolation
// if the result would leave [0, TotalCopies].
func (b Book) AdjustAvailability(delta int) (Book, error) {
	next := b.AvailableCopies + delta

	if next < 0 || next > b.TotalCopies {
		return b, fmt.Errorf(
			"%w: book %s would have %d of %d copies available",
			ErrInvariantViolation, b.BookID, next, b.TotalCopies,
		)
	}

	b.AvailableCopies = next

	return b, nil
}

// HasCopiesAvailable tells whether at least one copy is on the shelf.
func (b Book) HasCopiesAvailable() bool {
	return b.AvailableCopies > 0
}

// ProjectBook folds the catalog and loan events of one book into its current copy counts.
// Returns ErrNotFound if the book was never added, and ErrInvariantViolation if the history
// opens or returns more loans than the book has copies.
func ProjectBook(history DomainEvents, bookID BookIDString) (Book, error) {
	var book Book
	found := false

	for _, event := range history {
		switch e := event.(type) {
		case BookAddedToCatalog:
			if e.BookID != bookID || found {
				continue
			}

			found = true
			book = Book{
				BookID:          e.BookID,
				Title:           e.Title,
				Author:          e.Author,
				Category:        e.Category,
				TotalCopies:     e.TotalCopies,
				AvailableCopies: e.TotalCopies,
			}

		case LoanOpened:
			if e.BookID != bookID || !found {
				continue
			}

			var err error
			if book, err = book.AdjustAvailability(-1); err != nil {
				return Book{}, err
			}

		case LoanReturned:
			if e.BookID != bookID || !found {
				continue
			}

			var err error
			if book, err = book.AdjustAvailability(+1); err != nil {
				return Book{}, err
			}
		}
	}

	if !found {
		return Book{}, fmt.Errorf("%w: book %s", ErrNotFound, bookID)
	}

	return book, nil
}
