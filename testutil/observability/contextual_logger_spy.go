package observability

import (
	"context"
	"sync"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

// ContextualLogRecord is one captured call, with the context it was made with.
type ContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy captures calls to the eventstore.ContextualLogger methods.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []ContextualLogRecord
}

func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

// Records returns a copy of the records with the given level, all records if level is empty.
func (s *ContextualLoggerSpy) Records(level string) []ContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []ContextualLogRecord
	for _, r := range s.records {
		if level == "" || r.Level == level {
			out = append(out, r)
		}
	}

	return out
}

// FirstWithMessage returns the first record with message.
func (s *ContextualLoggerSpy) FirstWithMessage(message string) (ContextualLogRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range s.records {
		if r.Message == message {
			return r, true
		}
	}

	return ContextualLogRecord{}, false
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level string, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, ContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

var _ eventstore.ContextualLogger = (*ContextualLoggerSpy)(nil)
