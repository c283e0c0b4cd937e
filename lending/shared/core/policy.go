package core

import (
	"time"
)

const day = 24 * time.Hour

// Lending policy defaults.
const (
	DefaultLoanPeriod        = 7 * day
	DefaultFinePerDay        = 2
	DefaultLeaderboardSize   = 50
	DefaultDueSoonWithinDays = 2
)

// LendingPolicy holds the tunable rules of the library.
type LendingPolicy struct {
	LoanPeriod        time.Duration
	FinePerDay        int
	LeaderboardSize   int
	DueSoonWithinDays int
}

// DefaultLendingPolicy returns a 7-day loan period with a fine of 2 per day late.
func DefaultLendingPolicy() LendingPolicy {
	return LendingPolicy{
		LoanPeriod:        DefaultLoanPeriod,
		FinePerDay:        DefaultFinePerDay,
		LeaderboardSize:   DefaultLeaderboardSize,
		DueSoonWithinDays: DefaultDueSoonWithinDays,
	}
}

// CalculateFine returns the days late, rounded up to whole calendar days, and the resulting fine.
// Returning on or before the due date costs nothing.
func CalculateFine(dueDate time.Time, returnedAt time.Time, finePerDay int) (daysLate int, fine int) {
	if !returnedAt.After(dueDate) {
		return 0, 0
	}

	overdue := returnedAt.Sub(dueDate)

	daysLate = int(overdue / day)
	if overdue%day != 0 {
		daysLate++
	}

	return daysLate, daysLate * max(0, finePerDay)
}
