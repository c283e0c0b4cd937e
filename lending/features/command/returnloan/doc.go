// Package returnloan implements the Return Loan use case.
//
// Returning closes the loan, computes days late and the fine, puts the copy back on the shelf and
// notifies the oldest pending reservation of the book. The freed copy is not handed over automatically;
// the notified member borrows it, which fulfills the reservation.
package returnloan
