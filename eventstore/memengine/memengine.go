package memengine

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/sync/semaphore"

	"github.com/AntonStoeckl/library-lending-engine/eventstore"
)

const (
	defaultOperationTimeout = 5 * time.Second

	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

// ErrInvalidOperationTimeout is returned by NewEventStore for a non-positive WithOperationTimeout.
var ErrInvalidOperationTimeout = errors.New("operation timeout must be positive")

var payloadJSON = jsoniter.ConfigFastest

type storedEvent struct {
	event  eventstore.StorableEvent
	fields map[string]string
}

// EventStore is an in-memory event log. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu               sync.RWMutex
	events           []storedEvent
	appendSlot       *semaphore.Weighted
	operationTimeout time.Duration
	logger           eventstore.Logger
}

// Option configures an EventStore.
type Option func(*EventStore) error

// WithOperationTimeout bounds every Query and Append.
func WithOperationTimeout(timeout time.Duration) Option {
	return func(es *EventStore) error {
		if timeout <= 0 {
			return ErrInvalidOperationTimeout
		}

		es.operationTimeout = timeout

		return nil
	}
}

// WithLogger sets a logger for appends and conflicts.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) error {
		es.logger = logger

		return nil
	}
}

// NewEventStore creates an empty EventStore. It fails if an option is invalid.
func NewEventStore(options ...Option) (*EventStore, error) {
	es := &EventStore{
		appendSlot:       semaphore.NewWeighted(1),
		operationTimeout: defaultOperationTimeout,
	}

	for _, option := range options {
		if err := option(es); err != nil {
			return nil, err
		}
	}

	return es, nil
}

// Query returns the events matching filter in append order and the highest sequence number among them.
func (es *EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	ctx, cancel := context.WithTimeout(ctx, es.operationTimeout)
	defer cancel()

	if err := ctx.Err(); err != nil {
		return nil, 0, mapContextError(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	events := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range es.events {
		if !matches(filter, stored) {
			continue
		}

		events = append(events, stored.copyOut())
		maxSequenceNumber = stored.event.SequenceNumber
	}

	return events, maxSequenceNumber, nil
}

// Append stores events atomically if the highest sequence number matching filter still is expectedMaxSequenceNumber.
func (es *EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	event eventstore.StorableEvent,
	additionalEvents ...eventstore.StorableEvent,
) error {

	ctx, cancel := context.WithTimeout(ctx, es.operationTimeout)
	defer cancel()

	allEvents := append(eventstore.StorableEvents{event}, additionalEvents...)

	toStore := make([]storedEvent, 0, len(allEvents))
	for _, e := range allEvents {
		stored, err := newStoredEvent(e)
		if err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, err)
		}

		toStore = append(toStore, stored)
	}

	if err := es.appendSlot.Acquire(ctx, 1); err != nil {
		return mapContextError(eventstore.ErrAppendingEventFailed, err)
	}
	defer es.appendSlot.Release(1)

	es.mu.Lock()
	defer es.mu.Unlock()

	actual := es.maxSequenceNumberFor(filter)
	if actual != expectedMaxSequenceNumber {
		es.log(logMsgConcurrencyConflict, logAttrExpectedSequence, expectedMaxSequenceNumber, logAttrActualSequence, actual)

		return eventstore.ErrConcurrencyConflict
	}

	next := uint(len(es.events))
	for i := range toStore {
		next++
		toStore[i].event.SequenceNumber = next
	}

	es.events = append(es.events, toStore...)
	es.log(logMsgEventsAppended, logAttrEventCount, len(toStore))

	return nil
}

func (es *EventStore) maxSequenceNumberFor(filter eventstore.Filter) eventstore.MaxSequenceNumberUint {
	for i := len(es.events) - 1; i >= 0; i-- {
		if matches(filter, es.events[i]) {
			return es.events[i].event.SequenceNumber
		}
	}

	return 0
}

func (es *EventStore) log(msg string, args ...any) {
	if es.logger != nil {
		es.logger.Info(msg, args...)
	}
}

func newStoredEvent(event eventstore.StorableEvent) (storedEvent, error) {
	var payload map[string]any
	if err := payloadJSON.Unmarshal(event.PayloadJSON, &payload); err != nil {
		return storedEvent{}, err
	}

	// Only string fields can satisfy a predicate, like jsonb containment of {"Key": "Val"}.
	fields := make(map[string]string, len(payload))
	for key, value := range payload {
		if s, ok := value.(string); ok {
			fields[key] = s
		}
	}

	event.PayloadJSON = slices.Clone(event.PayloadJSON)
	event.MetadataJSON = slices.Clone(event.MetadataJSON)
	event.OccurredAt = event.OccurredAt.UTC()

	return storedEvent{event: event, fields: fields}, nil
}

func (s storedEvent) copyOut() eventstore.StorableEvent {
	event := s.event
	event.PayloadJSON = slices.Clone(s.event.PayloadJSON)
	event.MetadataJSON = slices.Clone(s.event.MetadataJSON)

	return event
}

func matches(filter eventstore.Filter, stored storedEvent) bool {
	if len(filter.Items()) == 0 {
		return true
	}

	for _, item := range filter.Items() {
		if matchesItem(item, stored) {
			return true
		}
	}

	return false
}

func matchesItem(item eventstore.FilterItem, stored storedEvent) bool {
	if len(item.EventTypes()) > 0 && !slices.Contains(item.EventTypes(), stored.event.EventType) {
		return false
	}

	if len(item.Predicates()) == 0 {
		return true
	}

	holds := func(p eventstore.FilterPredicate) bool {
		value, ok := stored.fields[p.Key()]
		return ok && value == p.Val()
	}

	if item.AllPredicatesMustMatch() {
		for _, p := range item.Predicates() {
			if !holds(p) {
				return false
			}
		}

		return true
	}

	return slices.ContainsFunc(item.Predicates(), holds)
}

func mapContextError(base error, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Join(eventstore.ErrOperationTimeout, base, err)
	}

	return errors.Join(base, err)
}
