// Package core contains the lending domain: events, the error taxonomy, and the pure folds
// that turn an event history into books, loans, reservation queues and points balances.
//
// Nothing in here does I/O. Feature slices query the event store, convert the storable events
// with the shell package, and hand the resulting DomainEvents to the folds and Decide functions.
package core
