// Package reservationdetails implements the single reservation query.
package reservationdetails
