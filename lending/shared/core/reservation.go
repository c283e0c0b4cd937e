package core

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// ReservationStatus is the lifecycle state of a reservation.
type ReservationStatus string

const (
	// ReservationStatusPending means waiting in the queue.
	ReservationStatusPending ReservationStatus = "Pending"

	// ReservationStatusNotified means a returned copy was announced to the requester.
	ReservationStatusNotified ReservationStatus = "Notified"

	// ReservationStatusFulfilled means the requester borrowed the book.
	ReservationStatusFulfilled ReservationStatus = "Fulfilled"

	// ReservationStatusCancelled means the reservation was withdrawn.
	ReservationStatusCancelled ReservationStatus = "Cancelled"
)

// Reservation is a queued claim on a book that had no copy available.
type Reservation struct {
	ReservationID ReservationIDString
	BookID        BookIDString
	RequesterID   MemberIDString
	Status        ReservationStatus
	CreatedAt     time.Time
	LoanID        LoanIDString // the returned loan for Notified, the new loan for Fulfilled
}

// ReservationQueue is the FIFO of reservations for one book.
type ReservationQueue struct {
	bookID       BookIDString
	reservations []Reservation
}

// ProjectReservationQueue folds the reservation events of one book into its queue.
func ProjectReservationQueue(history DomainEvents, bookID BookIDString) ReservationQueue {
	q := ReservationQueue{bookID: bookID, reservations: make([]Reservation, 0)}

	for _, event := range history {
		switch e := event.(type) {
		case BookReserved:
			if e.BookID != bookID {
				continue
			}

			if _, ok := q.Find(e.ReservationID); ok {
				continue
			}

			q.reservations = append(q.reservations, Reservation{
				ReservationID: e.ReservationID,
				BookID:        e.BookID,
				RequesterID:   e.RequesterID,
				Status:        ReservationStatusPending,
				CreatedAt:     e.OccurredAt,
			})

		case ReservationNotified:
			q.update(e.ReservationID, ReservationStatusNotified, e.LoanID)

		case ReservationFulfilled:
			q.update(e.ReservationID, ReservationStatusFulfilled, e.LoanID)

		case ReservationCancelled:
			q.update(e.ReservationID, ReservationStatusCancelled, "")
		}
	}

	return q
}

// BookID returns the book this queue belongs to.
func (q ReservationQueue) BookID() BookIDString {
	return q.bookID
}

// All returns every reservation of the book in FIFO order.
func (q ReservationQueue) All() []Reservation {
	all := slices.Clone(q.reservations)
	slices.SortStableFunc(all, compareFIFO)

	return all
}

// Pending returns the pending reservations ordered by creation time, then reservation ID ascending.
func (q ReservationQueue) Pending() []Reservation {
	pending := make([]Reservation, 0)

	for _, r := range q.All() {
		if r.Status == ReservationStatusPending {
			pending = append(pending, r)
		}
	}

	return pending
}

// PeekOldestPending returns the reservation that is served next, if any.
func (q ReservationQueue) PeekOldestPending() (Reservation, bool) {
	pending := q.Pending()
	if len(pending) == 0 {
		return Reservation{}, false
	}

	return pending[0], true
}

// HasPending tells whether requesterID already waits in this queue.
func (q ReservationQueue) HasPending(requesterID MemberIDString) bool {
	for _, r := range q.reservations {
		if r.RequesterID == requesterID && r.Status == ReservationStatusPending {
			return true
		}
	}

	return false
}

// NotifiedFor returns the oldest notified reservation of requesterID, if any.
func (q ReservationQueue) NotifiedFor(requesterID MemberIDString) (Reservation, bool) {
	for _, r := range q.All() {
		if r.RequesterID == requesterID && r.Status == ReservationStatusNotified {
			return r, true
		}
	}

	return Reservation{}, false
}

// Find looks up a reservation by ID.
func (q ReservationQueue) Find(reservationID ReservationIDString) (Reservation, bool) {
	for _, r := range q.reservations {
		if r.ReservationID == reservationID {
			return r, true
		}
	}

	return Reservation{}, false
}

// Enqueue decides whether requesterID may join the queue and returns the event to append.
func (q ReservationQueue) Enqueue(
	reservationID ReservationIDString,
	requesterID MemberIDString,
	at time.Time,
) (BookReserved, error) {

	if q.HasPending(requesterID) {
		return BookReserved{}, fmt.Errorf(
			"%w: member %s already waits for book %s", ErrDuplicateReservation, requesterID, q.bookID,
		)
	}

	return BuildBookReserved(reservationID, q.bookID, requesterID, at), nil
}

// MarkNotified decides the Pending -> Notified transition for a reservation.
// freedByLoanID is the loan whose return made a copy available.
func (q ReservationQueue) MarkNotified(
	reservationID ReservationIDString,
	freedByLoanID LoanIDString,
	at time.Time,
) (ReservationNotified, error) {

	r, ok := q.Find(reservationID)
	if !ok {
		return ReservationNotified{}, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}

	if r.Status != ReservationStatusPending {
		return ReservationNotified{}, fmt.Errorf(
			"%w: reservation %s is %s, not %s", ErrInvalidState, reservationID, r.Status, ReservationStatusPending,
		)
	}

	return BuildReservationNotified(r.ReservationID, r.BookID, r.RequesterID, freedByLoanID, at), nil
}

// Cancel decides the transition to Cancelled. Cancelling twice yields ok=false and no error.
func (q ReservationQueue) Cancel(
	reservationID ReservationIDString,
	at time.Time,
) (event ReservationCancelled, ok bool, err error) {

	r, found := q.Find(reservationID)
	if !found {
		return ReservationCancelled{}, false, fmt.Errorf("%w: reservation %s", ErrNotFound, reservationID)
	}

	switch r.Status {
	case ReservationStatusCancelled:
		return ReservationCancelled{}, false, nil
	case ReservationStatusFulfilled:
		return ReservationCancelled{}, false, fmt.Errorf(
			"%w: reservation %s is already fulfilled", ErrInvalidState, reservationID,
		)
	default:
		return BuildReservationCancelled(r.ReservationID, r.BookID, r.RequesterID, at), true, nil
	}
}

func (q *ReservationQueue) update(reservationID ReservationIDString, status ReservationStatus, loanID LoanIDString) {
	for i := range q.reservations {
		if q.reservations[i].ReservationID == reservationID {
			q.reservations[i].Status = status
			q.reservations[i].LoanID = loanID

			return
		}
	}
}

func compareFIFO(a, b Reservation) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}

	return strings.Compare(a.ReservationID, b.ReservationID)
}
