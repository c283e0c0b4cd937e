package httpapi

import (
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/leaderboard"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/lendingstats"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

type addBookRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Author      string `json:"author" validate:"max=200"`
	Category    string `json:"category" validate:"max=100"`
	TotalCopies int    `json:"totalCopies" validate:"gte=0,lte=10000"`
}

type returnByClaimRequest struct {
	ClaimToken string `json:"claimToken" validate:"required,max=2048"`
}

type renewalDecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approve decline"`
}

type submitDonationRequest struct {
	Title       string `json:"title" validate:"required,max=300"`
	Author      string `json:"author" validate:"max=200"`
	Description string `json:"description" validate:"max=2000"`
}

type bookResponse struct {
	BookID          string `json:"bookId"`
	Title           string `json:"title"`
	Author          string `json:"author"`
	Category        string `json:"category"`
	TotalCopies     int    `json:"totalCopies"`
	AvailableCopies int    `json:"availableCopies"`
}

type loanResponse struct {
	LoanID     string     `json:"loanId"`
	BookID     string     `json:"bookId"`
	BorrowerID string     `json:"borrowerId"`
	BorrowDate time.Time  `json:"borrowDate"`
	DueDate    time.Time  `json:"dueDate"`
	ReturnDate *time.Time `json:"returnDate,omitempty"`
	Status     string     `json:"status"`
	DaysLate   int        `json:"daysLate"`
	Fine       int        `json:"fine"`
	HasSlip    bool       `json:"hasSlip"`
}

type loanWithBookResponse struct {
	loanResponse
	Book bookResponse `json:"book"`
}

type reservationResponse struct {
	ReservationID string    `json:"reservationId"`
	BookID        string    `json:"bookId"`
	RequesterID   string    `json:"requesterId"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

type nextReservationResponse struct {
	Pending     bool                 `json:"pending"`
	Reservation *reservationResponse `json:"reservation,omitempty"`
}

type slipResponse struct {
	Loan  loanResponse        `json:"loan"`
	Token string              `json:"token"`
	Slip  jsoniter.RawMessage `json:"slip,omitempty"`
}

type pointsResponse struct {
	MemberID string `json:"memberId"`
	Points   int    `json:"points"`
}

type leaderboardEntryResponse struct {
	Rank     int    `json:"rank"`
	MemberID string `json:"memberId"`
	Points   int    `json:"points"`
}

type donationResponse struct {
	DonationID  string     `json:"donationId"`
	DonorID     string     `json:"donorId"`
	Title       string     `json:"title"`
	Author      string     `json:"author"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	BookID      string     `json:"bookId,omitempty"`
	SubmittedAt time.Time  `json:"submittedAt"`
	DecidedAt   *time.Time `json:"decidedAt,omitempty"`
}

type topBookResponse struct {
	BookID  string `json:"bookId"`
	Title   string `json:"title"`
	Borrows int    `json:"borrows"`
}

type statsResponse struct {
	Books       int               `json:"books"`
	ActiveLoans int               `json:"activeLoans"`
	Overdue     int               `json:"overdue"`
	TopBooks    []topBookResponse `json:"topBooks"`
}

func toBook(b core.Book) bookResponse {
	return bookResponse{
		BookID:          b.BookID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
	}
}

// toLoan leaves the claim token out, it is only handed out by the slip endpoint.
func toLoan(l core.Loan) loanResponse {
	return loanResponse{
		LoanID:     l.LoanID,
		BookID:     l.BookID,
		BorrowerID: l.BorrowerID,
		BorrowDate: l.BorrowDate,
		DueDate:    l.DueDate,
		ReturnDate: l.ReturnDate,
		Status:     string(l.Status),
		DaysLate:   l.DaysLate,
		Fine:       l.Fine,
		HasSlip:    l.ClaimToken != "",
	}
}

func toLoans(loans []core.Loan) []loanResponse {
	out := make([]loanResponse, 0, len(loans))
	for _, l := range loans {
		out = append(out, toLoan(l))
	}

	return out
}

func toLoanWithBook(lb engine.LoanWithBook) loanWithBookResponse {
	return loanWithBookResponse{loanResponse: toLoan(lb.Loan), Book: toBook(lb.Book)}
}

func toReservation(r core.Reservation) reservationResponse {
	return reservationResponse{
		ReservationID: r.ReservationID,
		BookID:        r.BookID,
		RequesterID:   r.RequesterID,
		Status:        string(r.Status),
		CreatedAt:     r.CreatedAt,
	}
}

func toLeaderboard(entries []leaderboard.Entry) []leaderboardEntryResponse {
	out := make([]leaderboardEntryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, leaderboardEntryResponse{Rank: e.Rank, MemberID: e.MemberID, Points: e.Points})
	}

	return out
}

func toDonation(d core.Donation) donationResponse {
	return donationResponse{
		DonationID:  d.DonationID,
		DonorID:     d.DonorID,
		Title:       d.Title,
		Author:      d.Author,
		Description: d.Description,
		Status:      string(d.Status),
		BookID:      d.BookID,
		SubmittedAt: d.SubmittedAt,
		DecidedAt:   d.DecidedAt,
	}
}

func toDonations(donations []core.Donation) []donationResponse {
	out := make([]donationResponse, 0, len(donations))
	for _, d := range donations {
		out = append(out, toDonation(d))
	}

	return out
}

func toStats(stats lendingstats.LendingStats) statsResponse {
	top := make([]topBookResponse, 0, len(stats.TopBorrowed))
	for _, b := range stats.TopBorrowed {
		top = append(top, topBookResponse{BookID: b.BookID, Title: b.Title, Borrows: b.Borrows})
	}

	return statsResponse{
		Books:       stats.TotalBooks,
		ActiveLoans: stats.ActiveLoans,
		Overdue:     stats.OverdueLoans,
		TopBooks:    top,
	}
}
