package testdoubles

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// SpyMetricRecord represents a recorded metrics call. Kind is "duration", "counter" or "value".
type SpyMetricRecord struct {
	Kind       string
	Metric     string
	Duration   time.Duration
	Value      float64
	Labels     map[string]string
	Contextual bool
}

// MetricsCollectorSpy implements spies.ContextualMetricsCollector and records every call.
// AsPlainCollector exposes it as a plain spies.MetricsCollector.
type MetricsCollectorSpy struct {
	records []SpyMetricRecord
	mu      sync.Mutex
}

// NewMetricsCollectorSpy creates a new MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) record(record SpyMetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Copy labels to avoid external modifications
	record.Labels = maps.Clone(record.Labels)
	s.records = append(s.records, record)
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "duration", Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "counter", Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "value", Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "duration", Metric: metric, Duration: duration, Labels: labels, Contextual: true})
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "counter", Metric: metric, Labels: labels, Contextual: true})
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.record(SpyMetricRecord{Kind: "value", Metric: metric, Value: value, Labels: labels, Contextual: true})
}

// GetRecords returns a copy of all records.
func (s *MetricsCollectorSpy) GetRecords() []SpyMetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyMetricRecord(nil), s.records...)
}

// FindRecords returns all records of the given kind and metric name.
func (s *MetricsCollectorSpy) FindRecords(kind, metric string) []SpyMetricRecord {
	var found []SpyMetricRecord
	for _, record := range s.GetRecords() {
		if record.Kind == kind && record.Metric == metric {
			found = append(found, record)
		}
	}

	return found
}

// HasRecord checks if there's a record of the given kind and metric name.
func (s *MetricsCollectorSpy) HasRecord(kind, metric string) bool {
	return len(s.FindRecords(kind, metric)) > 0
}

// Reset clears all captured metric records.
func (s *MetricsCollectorSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = s.records[:0]
}

// AsPlainCollector hides the context-aware methods, to exercise the non-contextual fallback.
func (s *MetricsCollectorSpy) AsPlainCollector() spies.MetricsCollector {
	return plainMetricsCollector{spy: s}
}

type plainMetricsCollector struct {
	spy *MetricsCollectorSpy
}

func (p plainMetricsCollector) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	p.spy.RecordDuration(metric, duration, labels)
}

func (p plainMetricsCollector) IncrementCounter(metric string, labels map[string]string) {
	p.spy.IncrementCounter(metric, labels)
}

func (p plainMetricsCollector) RecordValue(metric string, value float64, labels map[string]string) {
	p.spy.RecordValue(metric, value, labels)
}

var _ spies.ContextualMetricsCollector = (*MetricsCollectorSpy)(nil)
