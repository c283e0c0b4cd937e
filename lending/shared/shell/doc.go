// Package shell is the imperative shell around the lending core.
//
// It converts between storable events and domain events, retries command handlers on
// concurrency conflicts, and holds the shared observability vocabulary (metric names,
// log messages, span names) used by the observable wrappers.
package shell
