// Package oteladapters implements the eventstore observability interfaces on top of
// OpenTelemetry, so the engines and the lending command and query handlers can report
// through any configured OTel SDK.
//
//   - SlogBridgeLogger: eventstore.ContextualLogger and eventstore.Logger over log/slog,
//     either through the otelslog bridge or through any slog.Handler with trace correlation
//   - OTelLogger: eventstore.ContextualLogger over the OTel logs API
//   - MetricsCollector: histograms, counters and gauges created on first use
//   - TracingCollector: spans with status mapping
package oteladapters
