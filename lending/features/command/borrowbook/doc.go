// Package borrowbook implements the Borrow Book use case.
//
// A member borrows one copy of a catalog book. The book's events form the consistency boundary,
// so availability can never drop below zero even under concurrent borrowing.
// If the borrower had been notified about a freed copy of this book, the reservation is fulfilled
// in the same atomic append.
package borrowbook
