package core

import (
	"fmt"
	"time"
)

// LoanStatus is the lifecycle state of a loan.
type LoanStatus string

const (
	// LoanStatusActive is the state after borrowing and after any renewal decision.
	LoanStatusActive LoanStatus = "Active"

	// LoanStatusRenewalRequested is the state while a renewal waits for a decision.
	LoanStatusRenewalRequested LoanStatus = "RenewalRequested"

	// LoanStatusReturned is terminal.
	LoanStatusReturned LoanStatus = "Returned"
)

// Loan is one copy of a book checked out to one borrower.
type Loan struct {
	LoanID     LoanIDString
	BookID     BookIDString
	BorrowerID MemberIDString
	BorrowDate time.Time
	DueDate    time.Time
	ReturnDate *time.Time
	Status     LoanStatus
	DaysLate   int
	Fine       int
	ClaimToken string
}

// IsReturned tells whether the loan reached its terminal state.
func (l Loan) IsReturned() bool {
	return l.Status == LoanStatusReturned
}

// ProjectLoan folds the history into the current state of one loan.
// Returns ErrNotFound if the loan was never opened.
func ProjectLoan(history DomainEvents, loanID LoanIDString) (Loan, error) {
	for _, loan := range ProjectLoans(history) {
		if loan.LoanID == loanID {
			return loan, nil
		}
	}

	return Loan{}, fmt.Errorf("%w: loan %s", ErrNotFound, loanID)
}

// ProjectLoans folds the history into all loans it mentions, in the order they were opened.
// Events for loans whose LoanOpened is not part of the history are ignored.
func ProjectLoans(history DomainEvents) []Loan {
	loans := make([]Loan, 0)
	index := make(map[LoanIDString]int)

	apply := func(loanID LoanIDString, fn func(l *Loan)) {
		if i, ok := index[loanID]; ok {
			fn(&loans[i])
		}
	}

	for _, event := range history {
		switch e := event.(type) {
		case LoanOpened:
			if _, ok := index[e.LoanID]; ok {
				continue
			}

			index[e.LoanID] = len(loans)
			loans = append(loans, Loan{
				LoanID:     e.LoanID,
				BookID:     e.BookID,
				BorrowerID: e.BorrowerID,
				BorrowDate: e.OccurredAt,
				DueDate:    e.DueDate,
				Status:     LoanStatusActive,
			})

		case LoanRenewalRequested:
			apply(e.LoanID, func(l *Loan) { l.Status = LoanStatusRenewalRequested })

		case LoanRenewalApproved:
			apply(e.LoanID, func(l *Loan) {
				l.Status = LoanStatusActive
				l.DueDate = e.NewDueDate
			})

		case LoanRenewalDeclined:
			apply(e.LoanID, func(l *Loan) { l.Status = LoanStatusActive })

		case ClaimTokenRecorded:
			apply(e.LoanID, func(l *Loan) { l.ClaimToken = e.ClaimToken })

		case LoanReturned:
			apply(e.LoanID, func(l *Loan) {
				returnedAt := e.OccurredAt
				l.Status = LoanStatusReturned
				l.ReturnDate = &returnedAt
				l.DaysLate = e.DaysLate
				l.Fine = e.Fine
			})
		}
	}

	return loans
}
