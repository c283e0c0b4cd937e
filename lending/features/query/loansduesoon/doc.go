// Package loansduesoon implements the Notifier's listDueSoon(withinDays) query.
//
// It is read-only and consumed by the reminder scanner in package notifier.
package loansduesoon
