// Package cancelreservation implements the Cancel Reservation use case.
//
// Pending and Notified reservations can be cancelled by the member who made them or by an administrator.
// Cancelling a Notified reservation does not pass the freed copy on; it stays on the shelf.
package cancelreservation
