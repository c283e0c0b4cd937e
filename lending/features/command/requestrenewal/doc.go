// Package requestrenewal implements the Request Renewal use case.
//
// The borrower, or an administrator on their behalf, asks to keep a book one more loan period.
// The loan waits in RenewalRequested until an administrator decides (see package deciderenewal).
package requestrenewal
