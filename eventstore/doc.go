// Package eventstore holds the engine-independent parts of the append-only event log
// that backs the lending engine: filters, storable events, consistency levels,
// shared errors and the observability interfaces the engines report through.
//
// A Filter selects the events that make up one consistency boundary, for example
// everything that happened to a single book:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(core.LoanOpenedEventType, core.LoanReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("BookID", bookID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvents...)
//
// Append only succeeds if nothing matching the same filter was appended after
// the Query. Otherwise it fails with ErrConcurrencyConflict and the caller
// re-reads and decides again. This is how per-book, per-loan and per-borrower
// operations are serialized without explicit locks.
package eventstore
