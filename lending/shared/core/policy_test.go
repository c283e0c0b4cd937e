package core_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

func Test_CalculateFine(t *testing.T) {
	dueDate := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	testCases := []struct {
		name         string
		returnedAt   time.Time
		wantDaysLate int
		wantFine     int
	}{
		{name: "early", returnedAt: dueDate.Add(-day), wantDaysLate: 0, wantFine: 0},
		{name: "exactly on due date", returnedAt: dueDate, wantDaysLate: 0, wantFine: 0},
		{name: "one minute late", returnedAt: dueDate.Add(time.Minute), wantDaysLate: 1, wantFine: 2},
		{name: "one day late", returnedAt: dueDate.Add(day), wantDaysLate: 1, wantFine: 2},
		{name: "three days late", returnedAt: dueDate.Add(3 * day), wantDaysLate: 3, wantFine: 6},
		{name: "three days and an hour late", returnedAt: dueDate.Add(3*day + time.Hour), wantDaysLate: 4, wantFine: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			daysLate, fine := core.CalculateFine(dueDate, tc.returnedAt, core.DefaultFinePerDay)

			// assert
			assert.Equal(t, tc.wantDaysLate, daysLate, "Should round overdue time up to whole days")
			assert.Equal(t, tc.wantFine, fine, "Should charge fine per day late")
		})
	}
}

func Test_DefaultLendingPolicy(t *testing.T) {
	// act
	policy := core.DefaultLendingPolicy()

	// assert
	assert.Equal(t, 7*24*time.Hour, policy.LoanPeriod, "Should lend for a week")
	assert.Equal(t, 2, policy.FinePerDay, "Should charge 2 per day")
	assert.Equal(t, 50, policy.LeaderboardSize, "Should rank the top 50")
	assert.Equal(t, 2, policy.DueSoonWithinDays, "Should remind 2 days ahead")
}
