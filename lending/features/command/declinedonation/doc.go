// Package declinedonation implements the Decline Donation use case.
//
// A declined donation is closed without cataloging a book or crediting the donor.
package declinedonation
