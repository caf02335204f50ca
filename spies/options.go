package spies

import (
	"time"
)

// Option defines a functional option for configuring a Registry.
type Option func(*Registry) error

// WithReporter sets the Reporter which receives verification outcomes.
// Expectations created by the Registry inherit it.
func WithReporter(reporter Reporter) Option {
	return func(r *Registry) error {
		if reporter == nil {
			return ErrNilReporter
		}

		r.reporter = reporter

		return nil
	}
}

// WithLogger sets the logger for the Registry.
// The logger will receive messages at different levels based on the logger's configured level:
//
// Debug level: named spies created, expectations registered
// Info level: teardown summaries with counts and durations
// Warn level: failed expectations
// Error level: teardowns aborted by a panicking Reporter.
func WithLogger(logger Logger) Option {
	return func(r *Registry) error {
		r.logger = logger
		return nil
	}
}

// WithContextualLogger sets the contextual logger for the Registry.
// It is preferred over the plain Logger inside context-aware operations like FinishContext.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(r *Registry) error {
		r.contextualLogger = logger
		return nil
	}
}

// WithMetrics sets the metrics collector for the Registry.
// It receives teardown durations, verified expectation counts by status and the number of named spies.
func WithMetrics(collector MetricsCollector) Option {
	return func(r *Registry) error {
		r.metricsCollector = collector
		return nil
	}
}

// WithTracing sets the tracing collector for the Registry.
// Every FinishContext call is wrapped in a span.
func WithTracing(collector TracingCollector) Option {
	return func(r *Registry) error {
		r.tracingCollector = collector
		return nil
	}
}

// WithSpyClock sets the clock handed to every named Spy the Registry creates.
func WithSpyClock(now func() time.Time) Option {
	return func(r *Registry) error {
		if now != nil {
			r.spyClock = now
		}

		return nil
	}
}
