package notifier

import (
	"context"
	"errors"
	"time"

	"github.com/AntonStoeckl/library-lending-engine/lending/shared/core"
	"github.com/AntonStoeckl/library-lending-engine/lending/shared/shell"
)

const (
	// DefaultInterval is the time between two scans.
	DefaultInterval = 24 * time.Hour

	// DefaultWithinDays is the due-soon window of a scan.
	DefaultWithinDays = 2
)

const (
	logMsgScanCompleted = "due soon scan completed"
	logMsgScanFailed    = "due soon scan failed"
	logMsgPublishFailed = "publishing due soon reminder failed"
	logAttrWithinDays   = "within_days"
	logAttrLoansFound   = "loans_found"
	logAttrPublished    = "reminders_published"
	logAttrLoanID       = "loan_id"
	logAttrError        = "error"
	logAttrScanDuration = "duration_ms"
)

// DueSoonLister lists open loans due within withinDays days, overdue ones included.
type DueSoonLister interface {
	ListDueSoon(ctx context.Context, withinDays int) ([]core.Loan, error)
}

// Scanner periodically publishes a reminder for every loan that is due soon.
type Scanner struct {
	lister     DueSoonLister
	publisher  Publisher
	interval   time.Duration
	withinDays int
	logger     shell.ContextualLogger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithInterval sets the time between two scans. Non-positive values keep the default.
func WithInterval(interval time.Duration) Option {
	return func(s *Scanner) {
		if interval > 0 {
			s.interval = interval
		}
	}
}

// WithWithinDays sets the due-soon window. Negative values keep the default.
func WithWithinDays(withinDays int) Option {
	return func(s *Scanner) {
		if withinDays >= 0 {
			s.withinDays = withinDays
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger shell.ContextualLogger) Option {
	return func(s *Scanner) {
		s.logger = logger
	}
}

// NewScanner creates a Scanner.
func NewScanner(lister DueSoonLister, publisher Publisher, opts ...Option) *Scanner {
	scanner := &Scanner{
		lister:     lister,
		publisher:  publisher,
		interval:   DefaultInterval,
		withinDays: DefaultWithinDays,
	}

	for _, opt := range opts {
		opt(scanner)
	}

	return scanner
}

// Run scans immediately and then on every tick until ctx is done.
// A failed scan is logged and does not stop the loop.
func (s *Scanner) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if _, err := s.ScanOnce(ctx); err != nil && ctx.Err() == nil {
			s.logError(ctx, logMsgScanFailed, logAttrError, err.Error())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

// ScanOnce publishes one reminder per due-soon loan and returns how many were published.
// Publishing continues past single failures, the failures are joined into the returned error.
func (s *Scanner) ScanOnce(ctx context.Context) (int, error) {
	start := time.Now()

	loans, err := s.lister.ListDueSoon(ctx, s.withinDays)
	if err != nil {
		return 0, err
	}

	var (
		published  int
		publishErr error
	)

	for _, loan := range loans {
		if err = s.publisher.Publish(ctx, ReminderFor(loan)); err != nil {
			s.logWarn(ctx, logMsgPublishFailed, logAttrLoanID, loan.LoanID, logAttrError, err.Error())
			publishErr = errors.Join(publishErr, err)

			continue
		}

		published++
	}

	s.logInfo(
		ctx,
		logMsgScanCompleted,
		logAttrWithinDays, s.withinDays,
		logAttrLoansFound, len(loans),
		logAttrPublished, published,
		logAttrScanDuration, shell.ToMilliseconds(time.Since(start)),
	)

	return published, publishErr
}

func (s *Scanner) logInfo(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.InfoContext(ctx, msg, args...)
	}
}

func (s *Scanner) logWarn(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.WarnContext(ctx, msg, args...)
	}
}

func (s *Scanner) logError(ctx context.Context, msg string, args ...any) {
	if s.logger != nil {
		s.logger.ErrorContext(ctx, msg, args...)
	}
}
