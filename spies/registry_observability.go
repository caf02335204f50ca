package spies

import (
	"context"
	"fmt"
	"math"
	"time"
)

const (
	logMsgSpyCreated        = "spies: named spy created"
	logMsgExpectationAdded  = "spies: expectation registered"
	logMsgExpectationFailed = "spies: expectation failed"
	logMsgFinished          = "spies: registry finished"
	logMsgFinishAborted     = "spies: reporter panicked during finish"

	logAttrSpyName    = "spy_name"
	logAttrSpyID      = "spy_id"
	logAttrPending    = "pending_expectations"
	logAttrVerified   = "verified_expectations"
	logAttrNamedSpies = "named_spies"
	logAttrFailure    = "failure"
	logAttrStatus     = "status"
	logAttrDurationMS = "duration_ms"

	metricFinishDuration         = "spies_finish_duration_seconds"
	metricExpectationsVerified   = "spies_expectations_verified_total"
	metricNamedSpies             = "spies_named_spies"
	spanNameFinish               = "spies.finish"
	spanAttrOperation            = "operation"
	spanAttrPendingExpectations  = "pending_expectations"
	spanAttrVerifiedExpectations = "verified_expectations"
	spanAttrFailedSpy            = "failed_spy"
	operationFinish              = "finish"

	statusPassed = "passed"
	statusFailed = "failed"
)

// logDebug logs at debug level if the logger is configured.
func (r *Registry) logDebug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// logInfoContext logs at info level, preferring the contextual logger if configured.
func (r *Registry) logInfoContext(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.InfoContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Info(msg, args...)
	}
}

// logWarnContext logs at warn level, preferring the contextual logger if configured.
func (r *Registry) logWarnContext(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.WarnContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}

// logErrorContext logs at error level, preferring the contextual logger if configured.
func (r *Registry) logErrorContext(ctx context.Context, msg string, args ...any) {
	if r.contextualLogger != nil {
		r.contextualLogger.ErrorContext(ctx, msg, args...)
		return
	}

	if r.logger != nil {
		r.logger.Error(msg, args...)
	}
}

// toMilliseconds converts a time.Duration to float64 milliseconds with 3 decimal places.
func toMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

// recordDurationMetricsContext records duration metrics with context if the collector supports it.
func (r *Registry) recordDurationMetricsContext(ctx context.Context, metricName string, duration time.Duration, status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationFinish,
		logAttrStatus:     status,
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordDurationContext(ctx, metricName, duration, labels)
	} else {
		r.metricsCollector.RecordDuration(metricName, duration, labels)
	}
}

// recordValueMetricsContext records value metrics with context if the collector supports it.
func (r *Registry) recordValueMetricsContext(ctx context.Context, metricName string, value float64, status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationFinish,
		logAttrStatus:     status,
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.RecordValueContext(ctx, metricName, value, labels)
	} else {
		r.metricsCollector.RecordValue(metricName, value, labels)
	}
}

// incrementVerifiedCounterContext counts one verified expectation with context if the collector supports it.
func (r *Registry) incrementVerifiedCounterContext(ctx context.Context, status string) {
	if r.metricsCollector == nil {
		return
	}

	labels := map[string]string{
		spanAttrOperation: operationFinish,
		logAttrStatus:     status,
	}

	if contextualCollector, ok := r.metricsCollector.(ContextualMetricsCollector); ok {
		contextualCollector.IncrementCounterContext(ctx, metricExpectationsVerified, labels)
	} else {
		r.metricsCollector.IncrementCounter(metricExpectationsVerified, labels)
	}
}

// startFinishSpan starts a tracing span for Finish if the tracing collector is configured.
func (r *Registry) startFinishSpan(ctx context.Context) (context.Context, SpanContext) {
	if r.tracingCollector == nil {
		return ctx, nil
	}

	return r.tracingCollector.StartSpan(ctx, spanNameFinish, map[string]string{
		spanAttrOperation: operationFinish,
	})
}

// finishFinishSpan finishes the Finish span with the verification results.
func (r *Registry) finishFinishSpan(span SpanContext, status string, pending, verified int, failedSpy string) {
	if r.tracingCollector == nil || span == nil {
		return
	}

	attrs := map[string]string{
		spanAttrPendingExpectations:  fmt.Sprintf("%d", pending),
		spanAttrVerifiedExpectations: fmt.Sprintf("%d", verified),
	}

	if failedSpy != "" {
		attrs[spanAttrFailedSpy] = failedSpy
	}

	r.tracingCollector.FinishSpan(span, status, attrs)
}
