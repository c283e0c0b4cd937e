package observability

import (
	"context"
	"maps"
	"sync"
	"time"
)

// MetricsCollectorSpy records every call of eventstore.ContextualMetricsCollector.
type MetricsCollectorSpy struct {
	mu        sync.Mutex
	durations []MetricRecord
	counters  []MetricRecord
	values    []MetricRecord
}

// MetricRecord is one recorded call. Duration or Value is zero where not applicable.
type MetricRecord struct {
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.durations = append(s.durations, MetricRecord{Metric: metric, Duration: duration, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.counters = append(s.counters, MetricRecord{Metric: metric, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values = append(s.values, MetricRecord{Metric: metric, Value: value, Labels: maps.Clone(labels)})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// HasDurationRecordForMetric starts a matcher over the recorded durations.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(metric, func() []MetricRecord { return s.durations })
}

// HasCounterRecordForMetric starts a matcher over the recorded counters.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(metric, func() []MetricRecord { return s.counters })
}

// HasValueRecordForMetric starts a matcher over the recorded values.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return s.matcher(metric, func() []MetricRecord { return s.values })
}

// CountCounterRecordsForMetric returns how often the counter was incremented.
func (s *MetricsCollectorSpy) CountCounterRecordsForMetric(metric string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	count := 0
	for _, record := range s.counters {
		if record.Metric == metric {
			count++
		}
	}

	return count
}

func (s *MetricsCollectorSpy) matcher(metric string, records func() []MetricRecord) *MetricRecordMatcher {
	s.mu.Lock()
	defer s.mu.Unlock()

	matches := make([]MetricRecord, 0)
	for _, record := range records() {
		if record.Metric == metric {
			matches = append(matches, record)
		}
	}

	return &MetricRecordMatcher{records: matches}
}

// MetricRecordMatcher narrows a set of records down by label.
type MetricRecordMatcher struct {
	records []MetricRecord
}

func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	matches := make([]MetricRecord, 0, len(m.records))
	for _, record := range m.records {
		if record.Labels[key] == value {
			matches = append(matches, record)
		}
	}

	return &MetricRecordMatcher{records: matches}
}

func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

func (m *MetricRecordMatcher) WithOperation(operation string) *MetricRecordMatcher {
	return m.WithLabel("operation", operation)
}

func (m *MetricRecordMatcher) WithErrorType(errorType string) *MetricRecordMatcher {
	return m.WithLabel("error_type", errorType)
}

// Assert reports whether at least one record survived the narrowing.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.records) > 0
}

// Records returns the matching records.
func (m *MetricRecordMatcher) Records() []MetricRecord {
	return m.records
}
