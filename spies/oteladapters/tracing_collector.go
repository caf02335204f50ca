package oteladapters

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/AntonStoeckl/dynamic-spies-go/spies"
)

// TracingCollector implements spies.TracingCollector using the OpenTelemetry tracing API.
type TracingCollector struct {
	tracer trace.Tracer
}

// NewTracingCollector creates a collector starting its spans with tracer.
func NewTracingCollector(tracer trace.Tracer) *TracingCollector {
	return &TracingCollector{tracer: tracer}
}

// StartSpan starts a span with the given attributes and returns the context carrying it.
func (t *TracingCollector) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, spies.SpanContext) {
	spanCtx, span := t.tracer.Start(ctx, name, trace.WithAttributes(toAttributes(attrs)...))

	return spanCtx, &OTelSpanContext{span: span}
}

// FinishSpan adds the final attributes, sets the status and ends the span.
// Spans not started by this collector are ignored.
func (t *TracingCollector) FinishSpan(spanCtx spies.SpanContext, status string, attrs map[string]string) {
	otelSpanCtx, ok := spanCtx.(*OTelSpanContext)
	if !ok {
		return
	}

	otelSpanCtx.span.SetAttributes(toAttributes(attrs)...)
	otelSpanCtx.setSpanStatus(status)
	otelSpanCtx.span.End()
}

var _ spies.TracingCollector = (*TracingCollector)(nil)

// OTelSpanContext implements spies.SpanContext by wrapping an OpenTelemetry span.
type OTelSpanContext struct {
	span trace.Span
}

// SetStatus maps a spies status to an OpenTelemetry status code.
func (s *OTelSpanContext) SetStatus(status string) {
	s.setSpanStatus(status)
}

// AddAttribute adds a string attribute to the span.
func (s *OTelSpanContext) AddAttribute(key, value string) {
	s.span.SetAttributes(attribute.String(key, value))
}

func (s *OTelSpanContext) setSpanStatus(status string) {
	switch status {
	case "passed", "ok", "success":
		s.span.SetStatus(codes.Ok, "")
	case "failed", "error":
		s.span.SetStatus(codes.Error, "expectation failed")
	default:
		s.span.SetAttributes(attribute.String("status", status))
	}
}

var _ spies.SpanContext = (*OTelSpanContext)(nil)
