// Package recordclaimtoken implements persisting the claim token of a borrow slip on its loan.
//
// The token is produced outside the lending workflow by the slip issuer after a successful borrow.
// Staff can later find the loan by the token to process a return.
package recordclaimtoken
