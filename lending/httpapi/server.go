package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/AntonStoeckl/library-lending-engine/lending/engine"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
)

const (
	defaultRateLimitRPS   = 10
	defaultRateLimitBurst = 20
	corsMaxAgeSeconds     = 300
)

// SlipRenderer turns a loan and its claim token into the slip content. *slip.Issuer implements it.
type SlipRenderer interface {
	Artifact(loan core.Loan, claimToken string) ([]byte, error)
}

// Server holds the dependencies of the HTTP handlers.
type Server struct {
	engine         *engine.Engine
	slips          SlipRenderer
	validator      *requestValidator
	limiter        *memberRateLimiter
	allowedOrigins []string
	router         *chi.Mux
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSlipRenderer adds the slip content to the response of the slip endpoint.
func WithSlipRenderer(renderer SlipRenderer) Option {
	return func(s *Server) {
		s.slips = renderer
	}
}

// WithRateLimit sets requests per second and burst per member.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newMemberRateLimiter(rps, burst)
	}
}

// WithAllowedOrigins sets the CORS origins, default is any origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		s.allowedOrigins = origins
	}
}

// NewServer creates the HTTP server with all routes configured.
func NewServer(lending *engine.Engine, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		engine:         lending,
		validator:      newRequestValidator(),
		limiter:        newMemberRateLimiter(defaultRateLimitRPS, defaultRateLimitBurst),
		allowedOrigins: []string{"*"},
		router:         chi.NewRouter(),
		logger:         logger,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", headerMemberID, headerMemberRole, middleware.RequestIDHeader},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         corsMaxAgeSeconds,
	}))
	s.router.Use(identify)
	s.router.Use(s.rateLimit)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/leaderboard", s.handleLeaderboard)

		r.Route("/books", func(r chi.Router) {
			r.With(s.requireAdmin).Post("/", s.handleAddBook)
			r.Get("/{bookID}", s.handleGetBook)
			r.With(s.requireMember).Post("/{bookID}/borrow", s.handleBorrow)
			r.With(s.requireMember).Post("/{bookID}/reservations", s.handleReserve)
			r.With(s.requireAdmin).Get("/{bookID}/reservations", s.handleReservationQueue)
			r.Get("/{bookID}/reservations/next", s.handleNextReservation)
		})

		r.With(s.requireMember).Delete("/reservations/{reservationID}", s.handleCancelReservation)

		r.Route("/loans", func(r chi.Router) {
			r.With(s.requireAdmin).Get("/due-soon", s.handleDueSoon)
			r.With(s.requireAdmin).Post("/return-by-claim", s.handleReturnByClaim)
			r.With(s.requireMember).Get("/{loanID}", s.handleGetLoan)
			r.With(s.requireAdmin).Post("/{loanID}/return", s.handleReturn)
			r.With(s.requireMember).Post("/{loanID}/renewal", s.handleRequestRenewal)
			r.With(s.requireAdmin).Post("/{loanID}/renewal/decision", s.handleDecideRenewal)
			r.With(s.requireMember).Post("/{loanID}/slip", s.handleIssueSlip)
		})

		r.With(s.requireAdmin).Get("/renewals/pending", s.handlePendingRenewals)

		r.Route("/members/{memberID}", func(r chi.Router) {
			r.Use(s.requireMember)
			r.Get("/loans", s.handleMemberLoans)
			r.Get("/points", s.handleMemberPoints)
		})

		r.Route("/donations", func(r chi.Router) {
			r.With(s.requireMember).Post("/", s.handleSubmitDonation)
			r.With(s.requireAdmin).Get("/pending", s.handlePendingDonations)
			r.With(s.requireAdmin).Post("/{donationID}/approve", s.handleApproveDonation)
			r.With(s.requireAdmin).Post("/{donationID}/decline", s.handleDeclineDonation)
		})

		r.With(s.requireAdmin).Get("/stats", s.handleLendingStats)
	})
}
