// Package pendingdonations implements the admin review list of submitted donations.
package pendingdonations
