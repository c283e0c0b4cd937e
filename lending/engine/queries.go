package engine

import (
	"context"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/borrowerloans"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/leaderboard"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/lendingstats"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/loandetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/loansduesoon"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pendingdonations"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pendingrenewals"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pointsbalance"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/reservationqueue"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

// GetBook returns the catalog entry of a book.
func (e *Engine) GetBook(ctx context.Context, bookID string) (core.Book, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	id, err := parseID("book", bookID)
	if err != nil {
		return core.Book{}, err
	}

	result, err := e.bookDetails.Handle(eventstore.WithEventualConsistency(ctx), bookdetails.BuildQuery(id))
	if err != nil {
		return core.Book{}, failure(err)
	}

	return result.Book, nil
}

// GetLoan returns a loan together with its book, read with two separate queries.
func (e *Engine) GetLoan(ctx context.Context, loanID string) (LoanWithBook, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	id, err := parseID("loan", loanID)
	if err != nil {
		return LoanWithBook{}, err
	}

	ctx = eventstore.WithEventualConsistency(ctx)

	loan, err := e.loanDetails.Handle(ctx, loandetails.BuildQuery(id))
	if err != nil {
		return LoanWithBook{}, failure(err)
	}

	bookID, err := parseID("book", loan.BookID)
	if err != nil {
		return LoanWithBook{}, err
	}

	book, err := e.bookDetails.Handle(ctx, bookdetails.BuildQuery(bookID))
	if err != nil {
		return LoanWithBook{}, failure(err)
	}

	return LoanWithBook{Loan: loan.Loan, Book: book.Book}, nil
}

// PeekOldestPending returns the reservation the next returned copy of the book goes to.
func (e *Engine) PeekOldestPending(ctx context.Context, bookID string) (core.Reservation, bool, error) {
	queue, err := e.ReservationQueue(ctx, bookID)
	if err != nil {
		return core.Reservation{}, false, err
	}

	if len(queue) == 0 {
		return core.Reservation{}, false, nil
	}

	return queue[0], true, nil
}

// ReservationQueue returns the pending reservations of a book in serving order.
func (e *Engine) ReservationQueue(ctx context.Context, bookID string) ([]core.Reservation, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	id, err := parseID("book", bookID)
	if err != nil {
		return nil, err
	}

	result, err := e.reservationQueue.Handle(eventstore.WithEventualConsistency(ctx), reservationqueue.BuildQuery(id))
	if err != nil {
		return nil, failure(err)
	}

	return result.Pending, nil
}

// ListDueSoon returns the open loans due within withinDays days from now, overdue ones included.
func (e *Engine) ListDueSoon(ctx context.Context, withinDays int) ([]core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	query := loansduesoon.BuildQuery(withinDays, e.now())

	result, err := e.loansDueSoon.Handle(eventstore.WithEventualConsistency(ctx), query)
	if err != nil {
		return nil, failure(err)
	}

	return result.Loans, nil
}

// BorrowerLoans returns every loan of a member, newest first.
func (e *Engine) BorrowerLoans(ctx context.Context, borrowerID core.MemberIDString) ([]core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	result, err := e.borrowerLoans.Handle(eventstore.WithEventualConsistency(ctx), borrowerloans.BuildQuery(borrowerID))
	if err != nil {
		return nil, failure(err)
	}

	return result.Loans, nil
}

// PendingRenewals returns the loans waiting for a renewal decision.
func (e *Engine) PendingRenewals(ctx context.Context) ([]core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	result, err := e.pendingRenewals.Handle(eventstore.WithEventualConsistency(ctx), pendingrenewals.BuildQuery())
	if err != nil {
		return nil, failure(err)
	}

	return result.Loans, nil
}

// PointsBalance returns the points of a member, 0 for unknown members.
func (e *Engine) PointsBalance(ctx context.Context, memberID core.MemberIDString) (int, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	result, err := e.pointsBalance.Handle(eventstore.WithEventualConsistency(ctx), pointsbalance.BuildQuery(memberID))
	if err != nil {
		return 0, failure(err)
	}

	return result.Points, nil
}

// Leaderboard returns the top size members by points. A non-positive size uses the policy's leaderboard size.
func (e *Engine) Leaderboard(ctx context.Context, size int) ([]leaderboard.Entry, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	if size <= 0 {
		size = e.policy.LeaderboardSize
	}

	result, err := e.leaderboard.Handle(eventstore.WithEventualConsistency(ctx), leaderboard.BuildQuery(size))
	if err != nil {
		return nil, failure(err)
	}

	return result.Entries, nil
}

// PendingDonations returns the donations waiting for a decision, newest first.
func (e *Engine) PendingDonations(ctx context.Context) ([]core.Donation, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	result, err := e.pendingDonations.Handle(eventstore.WithEventualConsistency(ctx), pendingdonations.BuildQuery())
	if err != nil {
		return nil, failure(err)
	}

	return result.Donations, nil
}

// LendingStats returns catalog size, open and overdue loan counts and the most borrowed books.
func (e *Engine) LendingStats(ctx context.Context) (lendingstats.LendingStats, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	result, err := e.lendingStats.Handle(eventstore.WithEventualConsistency(ctx), lendingstats.BuildQuery(e.now()))
	if err != nil {
		return lendingstats.LendingStats{}, failure(err)
	}

	return result, nil
}
