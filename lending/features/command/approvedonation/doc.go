// Package approvedonation implements the Approve Donation use case.
//
// An approved donation becomes a new catalog book with a single copy and earns the donor points.
// Title, author and donor come from the submitted donation. Both events are appended together.
package approvedonation
