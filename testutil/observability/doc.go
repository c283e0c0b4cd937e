// Package observability provides spies for the eventstore observability interfaces
// and a slog handler that records log output, for use in tests.
package observability
