package core

import "errors"

// The lending error taxonomy. Decide functions wrap these with context, callers branch with errors.Is.
var (
	// ErrNotFound is returned when a referenced book, loan or reservation does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidState is returned when an operation is not legal in the current lifecycle state.
	ErrInvalidState = errors.New("invalid state")

	// ErrForbidden is returned when the caller may not act on the referenced entity.
	ErrForbidden = errors.New("forbidden")

	// ErrNoCopiesAvailable is returned when a book has no copy left to borrow.
	ErrNoCopiesAvailable = errors.New("no copies available")

	// ErrBookAvailable is returned when reserving a book that still has copies on the shelf.
	ErrBookAvailable = errors.New("book available")

	// ErrDuplicateReservation is returned when the requester already holds a pending reservation for the book.
	ErrDuplicateReservation = errors.New("duplicate reservation")

	// ErrAlreadyReturned is returned when returning a loan twice.
	ErrAlreadyReturned = errors.New("already returned")

	// ErrInvariantViolation signals corrupted state, e.g. more copies available than exist.
	// It is never expected in normal operation.
	ErrInvariantViolation = errors.New("invariant violation")

	// ErrTimeout is returned when the store did not answer within the operation timeout. Retryable.
	ErrTimeout = errors.New("timeout")

	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
)
