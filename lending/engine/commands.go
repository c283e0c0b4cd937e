package engine

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/addbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/approvedonation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/borrowbook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/cancelreservation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/deciderenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/declinedonation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/recordclaimtoken"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/requestrenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/reservebook"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/returnloan"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/submitdonation"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/bookdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/donationdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/loandetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/reservationdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

// AddBook catalogs a new book with totalCopies copies, all of them available.
func (e *Engine) AddBook(ctx context.Context, title, author, category string, totalCopies int) (core.Book, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	bookID := e.newID()

	if _, err := e.addBook.Handle(ctx, addbook.BuildCommand(bookID, title, author, category, totalCopies, e.now())); err != nil {
		return core.Book{}, failure(err)
	}

	return e.loadBook(ctx, bookID)
}

// Borrow lends one copy of the book to the borrower for one loan period and credits the borrower's points.
func (e *Engine) Borrow(ctx context.Context, bookID string, borrowerID core.MemberIDString) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	book, err := parseID("book", bookID)
	if err != nil {
		return core.Loan{}, err
	}

	loanID := e.newID()
	command := borrowbook.BuildCommand(loanID, book, borrowerID, e.policy.LoanPeriod, e.now())

	if _, err = e.borrowBook.Handle(ctx, command); err != nil {
		return core.Loan{}, failure(err)
	}

	return e.loadLoan(ctx, loanID)
}

// ReturnLoan closes the loan, computes the fine and notifies the oldest pending reservation of the book.
func (e *Engine) ReturnLoan(ctx context.Context, loanID string) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	loan, err := parseID("loan", loanID)
	if err != nil {
		return core.Loan{}, err
	}

	return e.returnLoanByID(ctx, loan)
}

// ReturnByClaimToken returns the loan a recorded claim token belongs to.
// With a ClaimIssuer configured the token must also verify and name the same loan.
func (e *Engine) ReturnByClaimToken(ctx context.Context, claimToken string) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	if claimToken == "" {
		return core.Loan{}, fmt.Errorf("%w: claim token must not be empty", core.ErrValidation)
	}

	var claimedLoanID core.LoanIDString

	if e.issuer != nil {
		claim, err := e.issuer.VerifyClaim(claimToken)
		if err != nil {
			return core.Loan{}, fmt.Errorf("%w: %w", core.ErrValidation, err)
		}

		claimedLoanID = claim.LoanID
	}

	history, _, err := shell.QueryHistory(ctx, e.eventStore, recordclaimtoken.BuildTokenLookupFilter(claimToken))
	if err != nil {
		return core.Loan{}, failure(err)
	}

	recorded := findClaimTokenRecorded(history, claimToken)
	if recorded == nil {
		return core.Loan{}, fmt.Errorf("%w: no loan for this claim token", core.ErrNotFound)
	}

	if claimedLoanID != "" && claimedLoanID != recorded.LoanID {
		return core.Loan{}, fmt.Errorf("%w: claim token names loan %s but is recorded on %s", core.ErrValidation, claimedLoanID, recorded.LoanID)
	}

	loan, err := parseID("loan", recorded.LoanID)
	if err != nil {
		return core.Loan{}, e.violated(ctx, fmt.Errorf("%w: recorded loan ID %q", core.ErrInvariantViolation, recorded.LoanID))
	}

	return e.returnLoanByID(ctx, loan)
}

// RequestRenewal asks for a renewal of an active loan. Only the borrower or an administrator may ask.
func (e *Engine) RequestRenewal(ctx context.Context, loanID string, caller Caller) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	loan, err := parseID("loan", loanID)
	if err != nil {
		return core.Loan{}, err
	}

	command := requestrenewal.BuildCommand(loan, caller.MemberID, caller.IsAdmin, e.now())

	if _, err = e.requestRenewal.Handle(ctx, command); err != nil {
		return core.Loan{}, failure(err)
	}

	return e.loadLoan(ctx, loan)
}

// DecideRenewal approves or declines a requested renewal. Approval extends the due date by one loan period.
func (e *Engine) DecideRenewal(ctx context.Context, loanID string, decision deciderenewal.Decision) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	loan, err := parseID("loan", loanID)
	if err != nil {
		return core.Loan{}, err
	}

	command := deciderenewal.BuildCommand(loan, decision, e.policy.LoanPeriod, e.now())

	if _, err = e.decideRenewal.Handle(ctx, command); err != nil {
		return core.Loan{}, failure(err)
	}

	return e.loadLoan(ctx, loan)
}

// Reserve queues the requester for a book that has no copy available.
func (e *Engine) Reserve(ctx context.Context, bookID string, requesterID core.MemberIDString) (core.Reservation, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	book, err := parseID("book", bookID)
	if err != nil {
		return core.Reservation{}, err
	}

	reservationID := e.newID()

	if _, err = e.reserveBook.Handle(ctx, reservebook.BuildCommand(reservationID, book, requesterID, e.now())); err != nil {
		return core.Reservation{}, failure(err)
	}

	return e.loadReservation(ctx, reservationID)
}

// CancelReservation withdraws a reservation. Only the requester or an administrator may cancel.
func (e *Engine) CancelReservation(ctx context.Context, reservationID string, caller Caller) (core.Reservation, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	reservation, err := parseID("reservation", reservationID)
	if err != nil {
		return core.Reservation{}, err
	}

	command := cancelreservation.BuildCommand(reservation, caller.MemberID, caller.IsAdmin, e.now())

	if _, err = e.cancelReservation.Handle(ctx, command); err != nil {
		return core.Reservation{}, failure(err)
	}

	return e.loadReservation(ctx, reservation)
}

// RecordClaimToken stores the claim token on the loan. A loan keeps the first token it got.
func (e *Engine) RecordClaimToken(ctx context.Context, loanID string, claimToken string) (core.Loan, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	loan, err := parseID("loan", loanID)
	if err != nil {
		return core.Loan{}, err
	}

	return e.recordClaim(ctx, loan, claimToken)
}

// IssueAndRecordClaim issues a claim token for the loan and records it.
// A loan that already has a token gets the recorded one back.
func (e *Engine) IssueAndRecordClaim(ctx context.Context, loanID string) (core.Loan, string, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	if e.issuer == nil {
		return core.Loan{}, "", ErrNoClaimIssuer
	}

	id, err := parseID("loan", loanID)
	if err != nil {
		return core.Loan{}, "", err
	}

	loan, err := e.loadLoan(ctx, id)
	if err != nil {
		return core.Loan{}, "", err
	}

	if loan.ClaimToken != "" {
		return loan, loan.ClaimToken, nil
	}

	claimToken, err := e.issuer.IssueClaim(loan)
	if err != nil {
		return core.Loan{}, "", err
	}

	loan, err = e.recordClaim(ctx, id, claimToken)
	if err != nil {
		return core.Loan{}, "", err
	}

	return loan, loan.ClaimToken, nil
}

// SubmitDonation records a member's offer of a book. It waits for ApproveDonation or DeclineDonation.
func (e *Engine) SubmitDonation(
	ctx context.Context,
	donorID core.MemberIDString,
	title string,
	author string,
	description string,
) (core.Donation, error) {

	ctx, cancel := e.begin(ctx)
	defer cancel()

	donationID := e.newID()
	command := submitdonation.BuildCommand(donationID, donorID, title, author, description, e.now())

	if _, err := e.submitDonation.Handle(ctx, command); err != nil {
		return core.Donation{}, failure(err)
	}

	return e.loadDonation(ctx, donationID)
}

// ApproveDonation catalogs the submitted book with one copy and credits the donor.
// Approving the same donation again returns the book cataloged the first time.
func (e *Engine) ApproveDonation(ctx context.Context, donationID string) (core.Book, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	id, err := parseID("donation", donationID)
	if err != nil {
		return core.Book{}, err
	}

	if _, err = e.approveDonation.Handle(ctx, approvedonation.BuildCommand(id, e.newID(), e.now())); err != nil {
		return core.Book{}, failure(err)
	}

	donation, err := e.loadDonation(ctx, id)
	if err != nil {
		return core.Book{}, err
	}

	bookID, err := uuid.Parse(donation.BookID)
	if err != nil || donation.Status != core.DonationStatusApproved {
		return core.Book{}, e.violated(ctx, fmt.Errorf(
			"%w: donation %s is %s with book %q", core.ErrInvariantViolation, donationID, donation.Status, donation.BookID,
		))
	}

	return e.loadBook(ctx, bookID)
}

// DeclineDonation closes a pending donation without cataloging it.
func (e *Engine) DeclineDonation(ctx context.Context, donationID string) (core.Donation, error) {
	ctx, cancel := e.begin(ctx)
	defer cancel()

	id, err := parseID("donation", donationID)
	if err != nil {
		return core.Donation{}, err
	}

	if _, err = e.declineDonation.Handle(ctx, declinedonation.BuildCommand(id, e.now())); err != nil {
		return core.Donation{}, failure(err)
	}

	return e.loadDonation(ctx, id)
}

func (e *Engine) returnLoanByID(ctx context.Context, loanID uuid.UUID) (core.Loan, error) {
	command := returnloan.BuildCommand(loanID, e.policy.FinePerDay, e.now())

	if _, err := e.returnLoan.Handle(ctx, command); err != nil {
		return core.Loan{}, failure(err)
	}

	return e.loadLoan(ctx, loanID)
}

func (e *Engine) recordClaim(ctx context.Context, loanID uuid.UUID, claimToken string) (core.Loan, error) {
	if _, err := e.recordClaimToken.Handle(ctx, recordclaimtoken.BuildCommand(loanID, claimToken, e.now())); err != nil {
		return core.Loan{}, failure(err)
	}

	return e.loadLoan(ctx, loanID)
}

// The load functions read the state a mutation just produced, so they insist on strong consistency.

func (e *Engine) loadLoan(ctx context.Context, loanID uuid.UUID) (core.Loan, error) {
	result, err := e.loanDetails.Handle(eventstore.WithStrongConsistency(ctx), loandetails.BuildQuery(loanID))
	if err != nil {
		return core.Loan{}, failure(err)
	}

	return result.Loan, nil
}

func (e *Engine) loadBook(ctx context.Context, bookID uuid.UUID) (core.Book, error) {
	result, err := e.bookDetails.Handle(eventstore.WithStrongConsistency(ctx), bookdetails.BuildQuery(bookID))
	if err != nil {
		return core.Book{}, failure(err)
	}

	return result.Book, nil
}

func (e *Engine) loadDonation(ctx context.Context, donationID uuid.UUID) (core.Donation, error) {
	result, err := e.donationDetails.Handle(eventstore.WithStrongConsistency(ctx), donationdetails.BuildQuery(donationID))
	if err != nil {
		return core.Donation{}, failure(err)
	}

	return result.Donation, nil
}

func (e *Engine) loadReservation(ctx context.Context, reservationID uuid.UUID) (core.Reservation, error) {
	result, err := e.reservationDetails.Handle(eventstore.WithStrongConsistency(ctx), reservationdetails.BuildQuery(reservationID))
	if err != nil {
		return core.Reservation{}, failure(err)
	}

	return result.Reservation, nil
}

func findClaimTokenRecorded(history core.DomainEvents, claimToken string) *core.ClaimTokenRecorded {
	for _, event := range history {
		if recorded, ok := event.(core.ClaimTokenRecorded); ok && recorded.ClaimToken == claimToken {
			return &recorded
		}
	}

	return nil
}
