package core

import (
	"slices"
	"strings"
)

// Fixed point deltas.
const (
	PointsForBorrow       = 10
	PointsForOnTimeReturn = 5
	PointsForDonation     = 50
)

// MemberPoints is one row of the points standings.
type MemberPoints struct {
	MemberID MemberIDString
	Points   int
}

// PointsLedger holds the running points balance of each member.
// Balances are folded in event order, so their serialization is the order of the event store.
type PointsLedger struct {
	balances map[MemberIDString]int
}

// ProjectPointsLedger folds loan and donation events into balances.
// A late return debits the fine, and the balance never drops below zero.
func ProjectPointsLedger(history DomainEvents) PointsLedger {
	ledger := PointsLedger{balances: make(map[MemberIDString]int)}

	for _, event := range history {
		switch e := event.(type) {
		case LoanOpened:
			ledger.credit(e.BorrowerID, PointsForBorrow)

		case LoanReturned:
			if e.Fine > 0 {
				ledger.debit(e.BorrowerID, e.Fine)
			} else {
				ledger.credit(e.BorrowerID, PointsForOnTimeReturn)
			}

		case DonationApproved:
			ledger.credit(e.DonorID, PointsForDonation)
		}
	}

	return ledger
}

// BalanceOf returns the balance of memberID, 0 if unknown.
func (l PointsLedger) BalanceOf(memberID MemberIDString) int {
	return l.balances[memberID]
}

// Standings returns all members ordered by points descending, ties by member ID ascending.
func (l PointsLedger) Standings() []MemberPoints {
	standings := make([]MemberPoints, 0, len(l.balances))
	for memberID, points := range l.balances {
		standings = append(standings, MemberPoints{MemberID: memberID, Points: points})
	}

	slices.SortFunc(standings, func(a, b MemberPoints) int {
		if a.Points != b.Points {
			return b.Points - a.Points
		}

		return strings.Compare(a.MemberID, b.MemberID)
	})

	return standings
}

// Top returns the first n entries of Standings.
func (l PointsLedger) Top(n int) []MemberPoints {
	standings := l.Standings()
	if n >= 0 && n < len(standings) {
		return standings[:n]
	}

	return standings
}

func (l PointsLedger) credit(memberID MemberIDString, points int) {
	l.balances[memberID] += points
}

func (l PointsLedger) debit(memberID MemberIDString, points int) {
	l.balances[memberID] = max(0, l.balances[memberID]-points)
}
