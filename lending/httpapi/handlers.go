package httpapi

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AntonStoeckl/library-lending-engine/lending/features/command/deciderenewal"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, s.logger)
}

func (s *Server) handleAddBook(w http.ResponseWriter, r *http.Request) {
	var req addBookRequest
	if err := s.validator.decode(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	book, err := s.engine.AddBook(r.Context(), req.Title, req.Author, req.Category, req.TotalCopies)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toBook(book), s.logger)
}

func (s *Server) handleGetBook(w http.ResponseWriter, r *http.Request) {
	book, err := s.engine.GetBook(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toBook(book), s.logger)
}

func (s *Server) handleBorrow(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	loan, err := s.engine.Borrow(r.Context(), chi.URLParam(r, "bookID"), caller.MemberID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toLoan(loan), s.logger)
}

func (s *Server) handleReserve(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	reservation, err := s.engine.Reserve(r.Context(), chi.URLParam(r, "bookID"), caller.MemberID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toReservation(reservation), s.logger)
}

func (s *Server) handleNextReservation(w http.ResponseWriter, r *http.Request) {
	reservation, ok, err := s.engine.PeekOldestPending(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	resp := nextReservationResponse{Pending: ok}
	if ok {
		next := toReservation(reservation)
		resp.Reservation = &next
	}

	writeJSON(w, http.StatusOK, resp, s.logger)
}

func (s *Server) handleReservationQueue(w http.ResponseWriter, r *http.Request) {
	queue, err := s.engine.ReservationQueue(r.Context(), chi.URLParam(r, "bookID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	out := make([]reservationResponse, 0, len(queue))
	for _, reservation := range queue {
		out = append(out, toReservation(reservation))
	}

	writeJSON(w, http.StatusOK, out, s.logger)
}

func (s *Server) handleCancelReservation(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	reservation, err := s.engine.CancelReservation(r.Context(), chi.URLParam(r, "reservationID"), caller)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toReservation(reservation), s.logger)
}

func (s *Server) handleGetLoan(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	loan, err := s.engine.GetLoan(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	if !selfOrAdmin(caller, loan.Loan.BorrowerID) {
		handleError(w, r, fmt.Errorf("%w: loan belongs to another member", core.ErrForbidden), s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoanWithBook(loan), s.logger)
}

func (s *Server) handleReturn(w http.ResponseWriter, r *http.Request) {
	loan, err := s.engine.ReturnLoan(r.Context(), chi.URLParam(r, "loanID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoan(loan), s.logger)
}

func (s *Server) handleReturnByClaim(w http.ResponseWriter, r *http.Request) {
	var req returnByClaimRequest
	if err := s.validator.decode(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	loan, err := s.engine.ReturnByClaimToken(r.Context(), req.ClaimToken)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoan(loan), s.logger)
}

func (s *Server) handleRequestRenewal(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	loan, err := s.engine.RequestRenewal(r.Context(), chi.URLParam(r, "loanID"), caller)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoan(loan), s.logger)
}

func (s *Server) handleDecideRenewal(w http.ResponseWriter, r *http.Request) {
	var req renewalDecisionRequest
	if err := s.validator.decode(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	loan, err := s.engine.DecideRenewal(r.Context(), chi.URLParam(r, "loanID"), deciderenewal.Decision(req.Decision))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoan(loan), s.logger)
}

func (s *Server) handleIssueSlip(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())
	loanID := chi.URLParam(r, "loanID")

	current, err := s.engine.GetLoan(r.Context(), loanID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	if !selfOrAdmin(caller, current.Loan.BorrowerID) {
		handleError(w, r, fmt.Errorf("%w: loan belongs to another member", core.ErrForbidden), s.logger)
		return
	}

	loan, token, err := s.engine.IssueAndRecordClaim(r.Context(), loanID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	resp := slipResponse{Loan: toLoan(loan), Token: token}

	if s.slips != nil {
		if resp.Slip, err = s.slips.Artifact(loan, token); err != nil {
			handleError(w, r, err, s.logger)
			return
		}
	}

	writeJSON(w, http.StatusCreated, resp, s.logger)
}

func (s *Server) handleDueSoon(w http.ResponseWriter, r *http.Request) {
	withinDays, err := intQueryParam(r, "withinDays", s.engine.Policy().DueSoonWithinDays)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	loans, err := s.engine.ListDueSoon(r.Context(), withinDays)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoans(loans), s.logger)
}

func (s *Server) handlePendingRenewals(w http.ResponseWriter, r *http.Request) {
	loans, err := s.engine.PendingRenewals(r.Context())
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoans(loans), s.logger)
}

func (s *Server) handleMemberLoans(w http.ResponseWriter, r *http.Request) {
	memberID, ok := s.memberParam(w, r)
	if !ok {
		return
	}

	loans, err := s.engine.BorrowerLoans(r.Context(), memberID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLoans(loans), s.logger)
}

func (s *Server) handleMemberPoints(w http.ResponseWriter, r *http.Request) {
	memberID, ok := s.memberParam(w, r)
	if !ok {
		return
	}

	points, err := s.engine.PointsBalance(r.Context(), memberID)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, pointsResponse{MemberID: memberID, Points: points}, s.logger)
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	size, err := intQueryParam(r, "size", s.engine.Policy().LeaderboardSize)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	entries, err := s.engine.Leaderboard(r.Context(), size)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toLeaderboard(entries), s.logger)
}

func (s *Server) handleSubmitDonation(w http.ResponseWriter, r *http.Request) {
	caller, _ := callerFrom(r.Context())

	var req submitDonationRequest
	if err := s.validator.decode(w, r, &req); err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	donation, err := s.engine.SubmitDonation(r.Context(), caller.MemberID, req.Title, req.Author, req.Description)
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toDonation(donation), s.logger)
}

func (s *Server) handlePendingDonations(w http.ResponseWriter, r *http.Request) {
	donations, err := s.engine.PendingDonations(r.Context())
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toDonations(donations), s.logger)
}

func (s *Server) handleApproveDonation(w http.ResponseWriter, r *http.Request) {
	book, err := s.engine.ApproveDonation(r.Context(), chi.URLParam(r, "donationID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusCreated, toBook(book), s.logger)
}

func (s *Server) handleDeclineDonation(w http.ResponseWriter, r *http.Request) {
	donation, err := s.engine.DeclineDonation(r.Context(), chi.URLParam(r, "donationID"))
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toDonation(donation), s.logger)
}

func (s *Server) handleLendingStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.engine.LendingStats(r.Context())
	if err != nil {
		handleError(w, r, err, s.logger)
		return
	}

	writeJSON(w, http.StatusOK, toStats(stats), s.logger)
}

// memberParam returns the memberID path parameter if the caller may see that member's data.
func (s *Server) memberParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	caller, _ := callerFrom(r.Context())
	memberID := chi.URLParam(r, "memberID")

	if !selfOrAdmin(caller, memberID) {
		handleError(w, r, fmt.Errorf("%w: data of another member", core.ErrForbidden), s.logger)
		return "", false
	}

	return memberID, true
}

func intQueryParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer", core.ErrValidation, name)
	}

	return value, nil
}
