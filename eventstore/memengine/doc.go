// Package memengine keeps the event log in process memory.
//
// It implements the same Query/Append contract as the Postgres engine, including
// the optimistic guard on the filter's highest sequence number, and is used by
// the test suites and by lendingd when started with the memory store. Appends are
// serialized through a weighted semaphore that is acquired with the caller's
// context, so a blocked append gives up with eventstore.ErrOperationTimeout.
package memengine
