// Package reservebook implements the Reserve Book use case.
//
// Reservations are only taken for books with every copy lent out. Pending reservations of a book
// are served first in, first out when a copy comes back (see package returnloan).
// A member can hold at most one pending reservation per book.
package reservebook
