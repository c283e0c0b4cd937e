// Package httpapi exposes the lending engine over HTTP with JSON envelopes.
//
// Authentication happens upstream: the gateway passes the caller in the X-Member-ID and
// X-Member-Role headers, and this package only decides what the caller may do.
// All routes live under /api/v1, errors map to status codes as follows:
//
//	ErrNotFound                                       404
//	ErrForbidden                                      403
//	ErrInvalidState, ErrAlreadyReturned,
//	ErrNoCopiesAvailable, ErrBookAvailable,
//	ErrDuplicateReservation                           409
//	ErrValidation                                     400
//	ErrTimeout                                        503 with Retry-After
//	ErrInvariantViolation and anything else           500
package httpapi
