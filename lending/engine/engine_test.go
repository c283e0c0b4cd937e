package engine_test

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/deciderenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/slip"
	"github.com/AntonStoeckl/library-lending-engine/testutil/fixture"
	"github.com/AntonStoeckl/library-lending-engine/testutil/observability"
)

const day = 24 * time.Hour

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

func givenClock() *testClock {
	return &testClock{now: fixture.Now}
}

func givenEngine(t *testing.T, clock *testClock, opts ...engine.Option) *engine.Engine {
	t.Helper()

	return engine.New(fixture.GivenEventStore(t), append([]engine.Option{engine.WithClock(clock.Now)}, opts...)...)
}

func givenBook(t *testing.T, e *engine.Engine, totalCopies int) core.Book {
	t.Helper()

	book, err := e.AddBook(context.Background(), "Dune", "Frank Herbert", "Fiction", totalCopies)
	require.NoError(t, err)

	return book
}

func givenBorrowed(t *testing.T, e *engine.Engine, bookID string, borrowerID string) core.Loan {
	t.Helper()

	loan, err := e.Borrow(context.Background(), bookID, borrowerID)
	require.NoError(t, err)

	return loan
}

func givenAvailableCopies(t *testing.T, e *engine.Engine, bookID string) int {
	t.Helper()

	book, err := e.GetBook(context.Background(), bookID)
	require.NoError(t, err)

	return book.AvailableCopies
}

func givenPoints(t *testing.T, e *engine.Engine, memberID string) int {
	t.Helper()

	points, err := e.PointsBalance(context.Background(), memberID)
	require.NoError(t, err)

	return points
}

func Test_Engine_BorrowThenReturn_RestoresAvailability(t *testing.T) {
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	book := givenBook(t, e, 2)
	ctx := context.Background()

	// act
	loan, err := e.Borrow(ctx, book.BookID, "alice")
	require.NoError(t, err)
	availableWhileLent := givenAvailableCopies(t, e, book.BookID)

	clock.Advance(3 * day)
	returned, err := e.ReturnLoan(ctx, loan.LoanID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusActive, loan.Status)
	assert.Equal(t, fixture.Now.Add(7*day), loan.DueDate, "Should be due one loan period after borrowing")
	assert.Equal(t, 1, availableWhileLent)
	assert.Equal(t, core.LoanStatusReturned, returned.Status)
	assert.Zero(t, returned.Fine)
	assert.Equal(t, 2, givenAvailableCopies(t, e, book.BookID), "Should restore the pre-borrow availability")
	assert.Equal(t, core.PointsForBorrow+core.PointsForOnTimeReturn, givenPoints(t, e, "alice"))
}

func Test_Engine_ReturnLoan_Fines(t *testing.T) { //nolint:funlen
	testCases := []struct {
		name         string
		afterDueDate time.Duration
		wantDaysLate int
		wantFine     int
		wantPoints   int
	}{
		{name: "on the due date", afterDueDate: 0, wantDaysLate: 0, wantFine: 0, wantPoints: 15},
		{name: "one day late", afterDueDate: day, wantDaysLate: 1, wantFine: 2, wantPoints: 8},
		{name: "three days late", afterDueDate: 3 * day, wantDaysLate: 3, wantFine: 6, wantPoints: 4},
		{name: "one hour late counts as a day", afterDueDate: time.Hour, wantDaysLate: 1, wantFine: 2, wantPoints: 8},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			clock := givenClock()
			e := givenEngine(t, clock)
			book := givenBook(t, e, 1)
			loan := givenBorrowed(t, e, book.BookID, "alice")
			clock.Advance(7*day + tc.afterDueDate)

			// act
			returned, err := e.ReturnLoan(context.Background(), loan.LoanID)

			// assert
			require.NoError(t, err)
			assert.Equal(t, tc.wantDaysLate, returned.DaysLate)
			assert.Equal(t, tc.wantFine, returned.Fine)
			assert.Equal(t, tc.wantPoints, givenPoints(t, e, "alice"))
		})
	}
}

func Test_Engine_ReturnLoan_Twice(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	_, err := e.ReturnLoan(context.Background(), loan.LoanID)
	require.NoError(t, err)

	// act
	_, err = e.ReturnLoan(context.Background(), loan.LoanID)

	// assert
	assert.ErrorIs(t, err, core.ErrAlreadyReturned)
	assert.Equal(t, 1, givenAvailableCopies(t, e, book.BookID))
}

func Test_Engine_Borrow_ConcurrentBorrowersOfTheLastCopy(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock(), engine.WithRetryOptions(shell.WithMaxAttempts(10), shell.WithBaseDelay(time.Millisecond)))
	book := givenBook(t, e, 1)
	borrowers := []string{"alice", "bob"}
	errs := make([]error, len(borrowers))

	var wg sync.WaitGroup

	// act
	for i, borrower := range borrowers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = e.Borrow(context.Background(), book.BookID, borrower)
		}()
	}

	wg.Wait()

	// assert
	succeeded, rejected := 0, 0

	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, core.ErrNoCopiesAvailable):
			rejected++
		default:
			t.Errorf("Should either borrow or be rejected, got: %v", err)
		}
	}

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, rejected)
	assert.Zero(t, givenAvailableCopies(t, e, book.BookID))
}

func Test_Engine_Borrow_Rejections(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	givenBorrowed(t, e, book.BookID, "alice")

	testCases := []struct {
		name    string
		bookID  string
		wantErr error
	}{
		{name: "no copies left", bookID: book.BookID, wantErr: core.ErrNoCopiesAvailable},
		{name: "unknown book", bookID: fixture.GivenUniqueID(t).String(), wantErr: core.ErrNotFound},
		{name: "malformed book ID", bookID: "no-such-book", wantErr: core.ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := e.Borrow(context.Background(), tc.bookID, "bob")

			// assert
			assert.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func Test_Engine_Reserve_RejectsAvailableBook(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 2)
	givenBorrowed(t, e, book.BookID, "alice")

	// act
	_, err := e.Reserve(context.Background(), book.BookID, "bob")

	// assert
	assert.ErrorIs(t, err, core.ErrBookAvailable)
}

func Test_Engine_ExampleScenario(t *testing.T) {
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	book := givenBook(t, e, 1)
	ctx := context.Background()

	// act
	loan, err := e.Borrow(ctx, book.BookID, "u1")
	require.NoError(t, err)
	_, reserveWhileAvailableErr := e.Reserve(ctx, book.BookID, "u1-friend")

	// assert
	require.NoError(t, err)
	assert.Zero(t, givenAvailableCopies(t, e, book.BookID))
	assert.Equal(t, core.LoanStatusActive, loan.Status)
	assert.Equal(t, fixture.Now.Add(7*day), loan.DueDate)
	assert.Equal(t, 10, givenPoints(t, e, "u1"))
	assert.NoError(t, reserveWhileAvailableErr, "Should accept a reservation once the only copy is lent")
}

func Test_Engine_ReservationsAreNotifiedInCreationOrder(t *testing.T) { //nolint:funlen
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	book := givenBook(t, e, 1)
	ctx := context.Background()
	loan := givenBorrowed(t, e, book.BookID, "alice")

	first, err := e.Reserve(ctx, book.BookID, "bob")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	second, err := e.Reserve(ctx, book.BookID, "carol")
	require.NoError(t, err)

	_, duplicateErr := e.Reserve(ctx, book.BookID, "bob")

	// act
	_, err = e.ReturnLoan(ctx, loan.LoanID)
	require.NoError(t, err)

	// assert
	assert.ErrorIs(t, duplicateErr, core.ErrDuplicateReservation)

	next, ok, err := e.PeekOldestPending(ctx, book.BookID)
	require.NoError(t, err)
	require.True(t, ok, "Should still have carol pending")
	assert.Equal(t, second.ReservationID, next.ReservationID)

	queue, err := e.ReservationQueue(ctx, book.BookID)
	require.NoError(t, err)
	assert.Len(t, queue, 1)

	borrowed, err := e.Borrow(ctx, book.BookID, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", borrowed.BorrowerID)

	_, err = e.CancelReservation(ctx, first.ReservationID, engine.Caller{MemberID: "bob"})
	assert.ErrorIs(t, err, core.ErrInvalidState, "Should not cancel a fulfilled reservation")
}

func Test_Engine_CancelReservation(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	givenBorrowed(t, e, book.BookID, "alice")
	reservation, err := e.Reserve(context.Background(), book.BookID, "bob")
	require.NoError(t, err)

	// act
	_, forbiddenErr := e.CancelReservation(context.Background(), reservation.ReservationID, engine.Caller{MemberID: "mallory"})
	cancelled, err := e.CancelReservation(context.Background(), reservation.ReservationID, engine.Caller{MemberID: "admin", IsAdmin: true})

	// assert
	assert.ErrorIs(t, forbiddenErr, core.ErrForbidden)
	require.NoError(t, err)
	assert.Equal(t, core.ReservationStatusCancelled, cancelled.Status)

	_, ok, err := e.PeekOldestPending(context.Background(), book.BookID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func Test_Engine_RenewalWorkflow(t *testing.T) { //nolint:funlen
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	ctx := context.Background()

	// act
	_, decideTooEarlyErr := e.DecideRenewal(ctx, loan.LoanID, deciderenewal.Approve)
	_, forbiddenErr := e.RequestRenewal(ctx, loan.LoanID, engine.Caller{MemberID: "bob"})
	requested, requestErr := e.RequestRenewal(ctx, loan.LoanID, engine.Caller{MemberID: "alice"})
	_, requestAgainErr := e.RequestRenewal(ctx, loan.LoanID, engine.Caller{MemberID: "alice"})
	approved, approveErr := e.DecideRenewal(ctx, loan.LoanID, deciderenewal.Approve)

	// assert
	assert.ErrorIs(t, decideTooEarlyErr, core.ErrInvalidState)
	assert.ErrorIs(t, forbiddenErr, core.ErrForbidden)
	require.NoError(t, requestErr)
	assert.Equal(t, core.LoanStatusRenewalRequested, requested.Status)
	assert.Equal(t, loan.DueDate, requested.DueDate, "Should keep the due date until a decision")
	assert.ErrorIs(t, requestAgainErr, core.ErrInvalidState)
	require.NoError(t, approveErr)
	assert.Equal(t, core.LoanStatusActive, approved.Status)
	assert.Equal(t, loan.DueDate.Add(7*day), approved.DueDate)
}

func Test_Engine_DecideRenewal_DeclineKeepsDueDate(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	_, err := e.RequestRenewal(context.Background(), loan.LoanID, engine.Caller{MemberID: "librarian", IsAdmin: true})
	require.NoError(t, err)

	// act
	declined, err := e.DecideRenewal(context.Background(), loan.LoanID, deciderenewal.Decline)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusActive, declined.Status)
	assert.Equal(t, loan.DueDate, declined.DueDate)
}

func Test_Engine_ReturnLoan_AfterApprovedRenewal_UsesExtendedDueDate(t *testing.T) {
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	ctx := context.Background()
	_, err := e.RequestRenewal(ctx, loan.LoanID, engine.Caller{MemberID: "alice"})
	require.NoError(t, err)
	_, err = e.DecideRenewal(ctx, loan.LoanID, deciderenewal.Approve)
	require.NoError(t, err)
	clock.Advance(10 * day)

	// act
	returned, err := e.ReturnLoan(ctx, loan.LoanID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusReturned, returned.Status)
	assert.Zero(t, returned.DaysLate, "Should measure lateness against the renewed due date")
	assert.Zero(t, returned.Fine)
	assert.Equal(t, 1, givenAvailableCopies(t, e, book.BookID))
}

func Test_Engine_ReturnLoan_WhileRenewalRequested(t *testing.T) {
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	ctx := context.Background()
	_, err := e.RequestRenewal(ctx, loan.LoanID, engine.Caller{MemberID: "alice"})
	require.NoError(t, err)
	clock.Advance(2 * day)

	// act
	returned, err := e.ReturnLoan(ctx, loan.LoanID)
	_, decideErr := e.DecideRenewal(ctx, loan.LoanID, deciderenewal.Approve)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusReturned, returned.Status, "Should end the pending renewal with the return")
	assert.Zero(t, returned.Fine)
	assert.Equal(t, 1, givenAvailableCopies(t, e, book.BookID), "Should put the copy back on the shelf")
	assert.ErrorIs(t, decideErr, core.ErrInvalidState, "Should not decide a renewal for a returned loan")
}

func Test_Engine_ClaimTokens(t *testing.T) { //nolint:funlen
	// arrange
	clock := givenClock()
	issuer, err := slip.NewIssuer(
		"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f",
		30*day,
		slip.WithClock(clock.Now),
	)
	require.NoError(t, err)

	e := givenEngine(t, clock, engine.WithClaimIssuer(issuer))
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	ctx := context.Background()

	// act
	withToken, token, err := e.IssueAndRecordClaim(ctx, loan.LoanID)
	require.NoError(t, err)
	_, tokenAgain, err := e.IssueAndRecordClaim(ctx, loan.LoanID)
	require.NoError(t, err)
	_, overwriteErr := e.RecordClaimToken(ctx, loan.LoanID, "v4.local.other")

	clock.Advance(2 * day)
	returned, err := e.ReturnByClaimToken(ctx, token)

	// assert
	require.NoError(t, err)
	assert.Equal(t, token, withToken.ClaimToken)
	assert.Equal(t, token, tokenAgain, "Should keep the first token")
	assert.ErrorIs(t, overwriteErr, core.ErrInvalidState)
	assert.Equal(t, loan.LoanID, returned.LoanID)
	assert.Equal(t, core.LoanStatusReturned, returned.Status)

	_, err = e.ReturnByClaimToken(ctx, "v4.local.forged")
	assert.ErrorIs(t, err, core.ErrValidation)
}

func Test_Engine_ReturnByClaimToken_WithoutIssuer(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	book := givenBook(t, e, 1)
	loan := givenBorrowed(t, e, book.BookID, "alice")
	_, err := e.RecordClaimToken(context.Background(), loan.LoanID, "opaque-token")
	require.NoError(t, err)

	// act
	returned, err := e.ReturnByClaimToken(context.Background(), "opaque-token")
	_, unknownErr := e.ReturnByClaimToken(context.Background(), "unknown-token")
	_, _, issueErr := e.IssueAndRecordClaim(context.Background(), loan.LoanID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.LoanStatusReturned, returned.Status)
	assert.ErrorIs(t, unknownErr, core.ErrNotFound)
	assert.ErrorIs(t, issueErr, engine.ErrNoClaimIssuer)
}

func Test_Engine_DonationWorkflow(t *testing.T) { //nolint:funlen
	// arrange
	e := givenEngine(t, givenClock())
	ctx := context.Background()

	// act
	submitted, err := e.SubmitDonation(ctx, "dora", "Emma", "Jane Austen", "first edition")
	require.NoError(t, err)
	pointsBeforeApproval := givenPoints(t, e, "dora")
	pendingBeforeApproval, err := e.PendingDonations(ctx)
	require.NoError(t, err)

	book, err := e.ApproveDonation(ctx, submitted.DonationID)
	require.NoError(t, err)
	again, againErr := e.ApproveDonation(ctx, submitted.DonationID)
	_, declineErr := e.DeclineDonation(ctx, submitted.DonationID)
	pendingAfterApproval, err := e.PendingDonations(ctx)
	require.NoError(t, err)

	// assert
	assert.Equal(t, core.DonationStatusPending, submitted.Status)
	assert.Zero(t, pointsBeforeApproval, "Should not credit on submission")
	require.Len(t, pendingBeforeApproval, 1)
	assert.Equal(t, submitted.DonationID, pendingBeforeApproval[0].DonationID)

	assert.Equal(t, "Emma", book.Title, "Should catalog the submitted title")
	assert.Equal(t, "Jane Austen", book.Author)
	assert.Equal(t, 1, book.TotalCopies)
	assert.Equal(t, "Donated", book.Category)
	require.NoError(t, againErr)
	assert.Equal(t, book.BookID, again.BookID, "Should return the book cataloged the first time")
	assert.Equal(t, core.PointsForDonation, givenPoints(t, e, "dora"), "Should credit the donor once")
	assert.ErrorIs(t, declineErr, core.ErrInvalidState, "Should not decline an approved donation")
	assert.Empty(t, pendingAfterApproval)
}

func Test_Engine_DeclineDonation(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	ctx := context.Background()
	submitted, err := e.SubmitDonation(ctx, "dora", "Emma", "Jane Austen", "")
	require.NoError(t, err)

	// act
	declined, err := e.DeclineDonation(ctx, submitted.DonationID)
	_, approveErr := e.ApproveDonation(ctx, submitted.DonationID)

	// assert
	require.NoError(t, err)
	assert.Equal(t, core.DonationStatusDeclined, declined.Status)
	assert.ErrorIs(t, approveErr, core.ErrInvalidState, "Should not approve a declined donation")
	assert.Zero(t, givenPoints(t, e, "dora"), "Should not credit a declined donation")
}

func Test_Engine_Donation_Rejections(t *testing.T) {
	// arrange
	e := givenEngine(t, givenClock())
	ctx := context.Background()

	// act
	_, missingTitleErr := e.SubmitDonation(ctx, "dora", " ", "Jane Austen", "")
	_, unknownApproveErr := e.ApproveDonation(ctx, fixture.GivenUniqueID(t).String())
	_, unknownDeclineErr := e.DeclineDonation(ctx, "no-such-donation")

	// assert
	assert.ErrorIs(t, missingTitleErr, core.ErrValidation)
	assert.ErrorIs(t, unknownApproveErr, core.ErrNotFound, "Should only approve submitted donations")
	assert.ErrorIs(t, unknownDeclineErr, core.ErrNotFound)
}

func Test_Engine_LendingStats(t *testing.T) {
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	popular := givenBook(t, e, 3)
	other := givenBook(t, e, 1)
	givenBorrowed(t, e, popular.BookID, "alice")
	givenBorrowed(t, e, popular.BookID, "bob")
	returned := givenBorrowed(t, e, other.BookID, "carol")
	_, err := e.ReturnLoan(context.Background(), returned.LoanID)
	require.NoError(t, err)
	clock.Advance(8 * day)

	// act
	stats, err := e.LendingStats(context.Background())

	// assert
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalBooks)
	assert.Equal(t, 2, stats.ActiveLoans)
	assert.Equal(t, 2, stats.OverdueLoans, "Should count open loans past their due date")
	require.Len(t, stats.TopBorrowed, 2)
	assert.Equal(t, popular.BookID, stats.TopBorrowed[0].BookID)
	assert.Equal(t, 2, stats.TopBorrowed[0].Borrows)
}

func Test_Engine_ReadModels(t *testing.T) { //nolint:funlen
	// arrange
	clock := givenClock()
	e := givenEngine(t, clock)
	ctx := context.Background()
	book := givenBook(t, e, 3)
	first := givenBorrowed(t, e, book.BookID, "alice")
	clock.Advance(3 * day)
	second := givenBorrowed(t, e, book.BookID, "bob")
	_, err := e.RequestRenewal(ctx, second.LoanID, engine.Caller{MemberID: "bob"})
	require.NoError(t, err)
	clock.Advance(3 * day)

	// act
	dueSoon, dueSoonErr := e.ListDueSoon(ctx, 2)
	history, historyErr := e.BorrowerLoans(ctx, "alice")
	pending, pendingErr := e.PendingRenewals(ctx)
	ranking, rankingErr := e.Leaderboard(ctx, 0)
	joined, joinedErr := e.GetLoan(ctx, first.LoanID)

	// assert
	require.NoError(t, dueSoonErr)
	require.Len(t, dueSoon, 1, "Should only list the loan due tomorrow")
	assert.Equal(t, first.LoanID, dueSoon[0].LoanID)

	require.NoError(t, historyErr)
	require.Len(t, history, 1)
	assert.Equal(t, first.LoanID, history[0].LoanID)

	require.NoError(t, pendingErr)
	require.Len(t, pending, 1)
	assert.Equal(t, second.LoanID, pending[0].LoanID)

	require.NoError(t, rankingErr)
	require.Len(t, ranking, 2)
	assert.Equal(t, "alice", ranking[0].MemberID)
	assert.Equal(t, 1, ranking[0].Rank)

	require.NoError(t, joinedErr)
	assert.Equal(t, first.LoanID, joined.Loan.LoanID)
	assert.Equal(t, "Dune", joined.Book.Title)
	assert.Equal(t, 1, joined.Book.AvailableCopies)
}

func Test_Engine_InvariantViolationIsLoggedAsError(t *testing.T) {
	// arrange
	es := fixture.GivenEventStore(t)
	unknownBookID := fixture.GivenUniqueID(t)
	loanID := fixture.GivenLoanOpened(t, es, unknownBookID, "alice", fixture.Now, fixture.Now.Add(7*day))
	logHandler := observability.NewLogHandlerSpy()
	e := engine.New(es, engine.WithClock(givenClock().Now), engine.WithContextualLogger(slog.New(logHandler)))

	// act
	_, err := e.ReturnLoan(context.Background(), loanID.String())

	// assert
	assert.ErrorIs(t, err, core.ErrInvariantViolation)
	assert.True(t, logHandler.HasLog(slog.LevelError, shell.LogMsgInvariantViolation))
}

func Test_Engine_KeepsTheCallersCorrelationID(t *testing.T) {
	// arrange
	loggerSpy := observability.NewContextualLoggerSpy()
	e := givenEngine(t, givenClock(), engine.WithContextualLogger(loggerSpy))
	book := givenBook(t, e, 1)
	correlationID := fixture.GivenUniqueID(t)

	// act
	_, err := e.Borrow(shell.WithCorrelationID(context.Background(), correlationID), book.BookID, "alice")

	// assert
	require.NoError(t, err)

	var completed []observability.ContextualLogRecord
	for _, record := range loggerSpy.Records("info") {
		if record.Message == shell.LogMsgCommandCompleted {
			completed = append(completed, record)
		}
	}

	require.Len(t, completed, 2, "Should log the completed AddBook and Borrow commands")
	assert.Equal(t, correlationID, shell.CorrelationIDFrom(completed[1].Context))
	assert.NotEqual(t, correlationID, shell.CorrelationIDFrom(completed[0].Context), "Should start a new correlation for other calls")
}

type stalledStore struct{}

func (stalledStore) Query(ctx context.Context, _ eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error) {
	<-ctx.Done()

	return nil, 0, ctx.Err()
}

func (stalledStore) Append(ctx context.Context, _ eventstore.Filter, _ eventstore.MaxSequenceNumberUint, _ eventstore.StorableEvent, _ ...eventstore.StorableEvent) error {
	<-ctx.Done()

	return ctx.Err()
}

func Test_Engine_OperationTimeout(t *testing.T) {
	// arrange
	e := engine.New(stalledStore{}, engine.WithOperationTimeout(20*time.Millisecond))

	// act
	_, borrowErr := e.Borrow(context.Background(), fixture.GivenUniqueID(t).String(), "alice")
	_, readErr := e.GetBook(context.Background(), fixture.GivenUniqueID(t).String())

	// assert
	assert.ErrorIs(t, borrowErr, core.ErrTimeout)
	assert.ErrorIs(t, borrowErr, context.DeadlineExceeded)
	assert.ErrorIs(t, readErr, core.ErrTimeout)
}
