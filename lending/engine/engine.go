package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

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
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/borrowerloans"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/donationdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/leaderboard"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/lendingstats"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/loandetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/loansduesoon"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pendingdonations"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pendingrenewals"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/pointsbalance"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/reservationdetails"
	"github.com/AntonStoeckl/library-lending-engine/lending/features/query/reservationqueue"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell/observable"
	"github.com/AntonStoeckl/library-lending-engine/lending/slip"
)

// DefaultOperationTimeout bounds a single engine operation if nothing else is configured.
const DefaultOperationTimeout = 5 * time.Second

// ErrNoClaimIssuer is returned by claim operations when the engine has no ClaimIssuer.
var ErrNoClaimIssuer = errors.New("no claim issuer configured")

// ClaimIssuer creates and verifies the claim tokens printed on borrow slips. *slip.Issuer implements it.
type ClaimIssuer interface {
	IssueClaim(loan core.Loan) (string, error)
	VerifyClaim(claimToken string) (slip.Claim, error)
}

// Caller identifies who invokes an operation that is restricted to the owner or an administrator.
type Caller struct {
	MemberID core.MemberIDString
	IsAdmin  bool
}

// LoanWithBook is a loan joined with the current state of its book.
type LoanWithBook struct {
	Loan core.Loan
	Book core.Book
}

type observers struct {
	metrics          shell.MetricsCollector
	tracing          shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Engine implements the lending operations on top of an event store.
type Engine struct {
	policy       core.LendingPolicy
	timeout      time.Duration
	now          func() time.Time
	newID        func() uuid.UUID
	issuer       ClaimIssuer
	retryOptions []shell.RetryOption
	observers    observers
	eventStore   shell.EventStore

	addBook           shell.CommandHandler[addbook.Command]
	borrowBook        shell.CommandHandler[borrowbook.Command]
	returnLoan        shell.CommandHandler[returnloan.Command]
	requestRenewal    shell.CommandHandler[requestrenewal.Command]
	decideRenewal     shell.CommandHandler[deciderenewal.Command]
	reserveBook       shell.CommandHandler[reservebook.Command]
	cancelReservation shell.CommandHandler[cancelreservation.Command]
	recordClaimToken  shell.CommandHandler[recordclaimtoken.Command]
	submitDonation    shell.CommandHandler[submitdonation.Command]
	approveDonation   shell.CommandHandler[approvedonation.Command]
	declineDonation   shell.CommandHandler[declinedonation.Command]

	bookDetails        shell.QueryHandler[bookdetails.Query, bookdetails.BookDetails]
	loanDetails        shell.QueryHandler[loandetails.Query, loandetails.LoanDetails]
	reservationDetails shell.QueryHandler[reservationdetails.Query, reservationdetails.ReservationDetails]
	reservationQueue   shell.QueryHandler[reservationqueue.Query, reservationqueue.ReservationQueue]
	loansDueSoon       shell.QueryHandler[loansduesoon.Query, loansduesoon.LoansDueSoon]
	borrowerLoans      shell.QueryHandler[borrowerloans.Query, borrowerloans.BorrowerLoans]
	pendingRenewals    shell.QueryHandler[pendingrenewals.Query, pendingrenewals.PendingRenewals]
	pointsBalance      shell.QueryHandler[pointsbalance.Query, pointsbalance.PointsBalance]
	leaderboard        shell.QueryHandler[leaderboard.Query, leaderboard.Leaderboard]
	donationDetails    shell.QueryHandler[donationdetails.Query, donationdetails.DonationDetails]
	pendingDonations   shell.QueryHandler[pendingdonations.Query, pendingdonations.PendingDonations]
	lendingStats       shell.QueryHandler[lendingstats.Query, lendingstats.LendingStats]
}

// Option configures an Engine.
type Option func(*Engine)

// WithPolicy sets loan period, fine per day, leaderboard size and the due-soon window.
func WithPolicy(policy core.LendingPolicy) Option {
	return func(e *Engine) {
		e.policy = policy
	}
}

// WithOperationTimeout bounds every operation. Non-positive values disable the bound.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.timeout = timeout
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithIDGenerator sets the generator of loan, book, reservation and donation identifiers.
func WithIDGenerator(newID func() uuid.UUID) Option {
	return func(e *Engine) {
		e.newID = newID
	}
}

// WithClaimIssuer enables IssueAndRecordClaim and claim verification in ReturnByClaimToken.
func WithClaimIssuer(issuer ClaimIssuer) Option {
	return func(e *Engine) {
		e.issuer = issuer
	}
}

// WithRetryOptions sets the retry configuration of all command handlers.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(e *Engine) {
		e.retryOptions = opts
	}
}

// WithMetrics records handler metrics.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(e *Engine) {
		e.observers.metrics = collector
	}
}

// WithTracing records handler spans.
func WithTracing(collector shell.TracingCollector) Option {
	return func(e *Engine) {
		e.observers.tracing = collector
	}
}

// WithContextualLogger logs handler outcomes with trace correlation.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(e *Engine) {
		e.observers.contextualLogger = logger
	}
}

// WithLogger logs handler outcomes.
func WithLogger(logger shell.Logger) Option {
	return func(e *Engine) {
		e.observers.logger = logger
	}
}

// New creates an Engine on top of eventStore.
func New(eventStore shell.EventStore, opts ...Option) *Engine {
	e := &Engine{
		policy:     core.DefaultLendingPolicy(),
		timeout:    DefaultOperationTimeout,
		now:        time.Now,
		newID:      uuid.New,
		eventStore: eventStore,
	}

	for _, opt := range opts {
		opt(e)
	}

	o := e.observers

	e.addBook = wrapCommand[addbook.Command](addbook.NewCommandHandler(eventStore, addbook.WithRetryOptions(e.retryOptions...)), o)
	e.borrowBook = wrapCommand[borrowbook.Command](borrowbook.NewCommandHandler(eventStore, borrowbook.WithRetryOptions(e.retryOptions...)), o)
	e.returnLoan = wrapCommand[returnloan.Command](returnloan.NewCommandHandler(eventStore, returnloan.WithRetryOptions(e.retryOptions...)), o)
	e.requestRenewal = wrapCommand[requestrenewal.Command](requestrenewal.NewCommandHandler(eventStore, requestrenewal.WithRetryOptions(e.retryOptions...)), o)
	e.decideRenewal = wrapCommand[deciderenewal.Command](deciderenewal.NewCommandHandler(eventStore, deciderenewal.WithRetryOptions(e.retryOptions...)), o)
	e.reserveBook = wrapCommand[reservebook.Command](reservebook.NewCommandHandler(eventStore, reservebook.WithRetryOptions(e.retryOptions...)), o)
	e.cancelReservation = wrapCommand[cancelreservation.Command](cancelreservation.NewCommandHandler(eventStore, cancelreservation.WithRetryOptions(e.retryOptions...)), o)
	e.recordClaimToken = wrapCommand[recordclaimtoken.Command](recordclaimtoken.NewCommandHandler(eventStore, recordclaimtoken.WithRetryOptions(e.retryOptions...)), o)
	e.submitDonation = wrapCommand[submitdonation.Command](submitdonation.NewCommandHandler(eventStore, submitdonation.WithRetryOptions(e.retryOptions...)), o)
	e.approveDonation = wrapCommand[approvedonation.Command](approvedonation.NewCommandHandler(eventStore, approvedonation.WithRetryOptions(e.retryOptions...)), o)
	e.declineDonation = wrapCommand[declinedonation.Command](declinedonation.NewCommandHandler(eventStore, declinedonation.WithRetryOptions(e.retryOptions...)), o)

	e.bookDetails = wrapQuery[bookdetails.Query, bookdetails.BookDetails](bookdetails.NewQueryHandler(eventStore), o)
	e.loanDetails = wrapQuery[loandetails.Query, loandetails.LoanDetails](loandetails.NewQueryHandler(eventStore), o)
	e.reservationDetails = wrapQuery[reservationdetails.Query, reservationdetails.ReservationDetails](reservationdetails.NewQueryHandler(eventStore), o)
	e.reservationQueue = wrapQuery[reservationqueue.Query, reservationqueue.ReservationQueue](reservationqueue.NewQueryHandler(eventStore), o)
	e.loansDueSoon = wrapQuery[loansduesoon.Query, loansduesoon.LoansDueSoon](loansduesoon.NewQueryHandler(eventStore), o)
	e.borrowerLoans = wrapQuery[borrowerloans.Query, borrowerloans.BorrowerLoans](borrowerloans.NewQueryHandler(eventStore), o)
	e.pendingRenewals = wrapQuery[pendingrenewals.Query, pendingrenewals.PendingRenewals](pendingrenewals.NewQueryHandler(eventStore), o)
	e.pointsBalance = wrapQuery[pointsbalance.Query, pointsbalance.PointsBalance](pointsbalance.NewQueryHandler(eventStore), o)
	e.leaderboard = wrapQuery[leaderboard.Query, leaderboard.Leaderboard](leaderboard.NewQueryHandler(eventStore), o)
	e.donationDetails = wrapQuery[donationdetails.Query, donationdetails.DonationDetails](donationdetails.NewQueryHandler(eventStore), o)
	e.pendingDonations = wrapQuery[pendingdonations.Query, pendingdonations.PendingDonations](pendingdonations.NewQueryHandler(eventStore), o)
	e.lendingStats = wrapQuery[lendingstats.Query, lendingstats.LendingStats](lendingstats.NewQueryHandler(eventStore), o)

	return e
}

// Policy returns the lending policy in effect.
func (e *Engine) Policy() core.LendingPolicy {
	return e.policy
}

func wrapCommand[C shell.Command](handler shell.CommandHandler[C], o observers) shell.CommandHandler[C] {
	var opts []observable.CommandOption[C]

	if o.metrics != nil {
		opts = append(opts, observable.WithCommandMetrics[C](o.metrics))
	}

	if o.tracing != nil {
		opts = append(opts, observable.WithCommandTracing[C](o.tracing))
	}

	if o.contextualLogger != nil {
		opts = append(opts, observable.WithCommandContextualLogging[C](o.contextualLogger))
	}

	if o.logger != nil {
		opts = append(opts, observable.WithCommandLogging[C](o.logger))
	}

	return observable.NewCommandWrapper[C](handler, opts...)
}

func wrapQuery[Q shell.Query, R shell.QueryResult](handler shell.QueryHandler[Q, R], o observers) shell.QueryHandler[Q, R] {
	var opts []observable.QueryOption[Q, R]

	if o.metrics != nil {
		opts = append(opts, observable.WithQueryMetrics[Q, R](o.metrics))
	}

	if o.tracing != nil {
		opts = append(opts, observable.WithQueryTracing[Q, R](o.tracing))
	}

	if o.contextualLogger != nil {
		opts = append(opts, observable.WithQueryContextualLogging[Q, R](o.contextualLogger))
	}

	if o.logger != nil {
		opts = append(opts, observable.WithQueryLogging[Q, R](o.logger))
	}

	return observable.NewQueryWrapper[Q, R](handler, opts...)
}

// begin bounds ctx by the operation timeout and attaches a correlation ID to all events appended within.
func (e *Engine) begin(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx = shell.WithCorrelationID(ctx, shell.CorrelationIDFrom(ctx))

	if e.timeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, e.timeout)
}

// failure maps deadline and store timeouts to core.ErrTimeout so callers can retry on a single error.
func failure(err error) error {
	if err == nil || errors.Is(err, core.ErrTimeout) || !shell.IsTimeoutError(err) {
		return err
	}

	return fmt.Errorf("%w: %w", core.ErrTimeout, err)
}

// violated logs an invariant violation the engine detected itself. Handler results are logged by the wrappers.
func (e *Engine) violated(ctx context.Context, err error) error {
	shell.LogError(ctx, e.observers.logger, e.observers.contextualLogger, shell.LogMsgInvariantViolation, shell.LogAttrError, err.Error())

	return err
}

// parseID treats a reference that cannot be an identifier like any other unknown reference.
func parseID(kind string, id string) (uuid.UUID, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %s %q", core.ErrNotFound, kind, id)
	}

	return parsed, nil
}
