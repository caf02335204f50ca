package config

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ServiceName identifies telemetry emitted by tests.
const ServiceName = "spies-test"

// TestObservabilityProviders holds in-memory OpenTelemetry providers for testing.
type TestObservabilityProviders struct {
	TracerProvider *trace.TracerProvider
	MeterProvider  *metric.MeterProvider
	Resource       *resource.Resource
	SpanExporter   *tracetest.InMemoryExporter
	MetricReader   *metric.ManualReader
}

// NewTestObservabilityConfig creates OpenTelemetry providers which keep all telemetry in memory.
// Spans are exported synchronously when they end, metrics are read on demand with CollectMetrics.
//
// With setGlobal, the providers are also installed as the OpenTelemetry globals, together with
// the W3C trace context propagator.
func NewTestObservabilityConfig(setGlobal bool) *TestObservabilityProviders {
	res := resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceNameKey.String(ServiceName),
		semconv.ServiceVersionKey.String("test"),
	)

	spanExporter := tracetest.NewInMemoryExporter()
	tracerProvider := trace.NewTracerProvider(
		trace.WithSyncer(spanExporter),
		trace.WithResource(res),
	)

	metricReader := metric.NewManualReader()
	meterProvider := metric.NewMeterProvider(
		metric.WithReader(metricReader),
		metric.WithResource(res),
	)

	if setGlobal {
		otel.SetTracerProvider(tracerProvider)
		otel.SetMeterProvider(meterProvider)
		otel.SetTextMapPropagator(propagation.TraceContext{})
	}

	return &TestObservabilityProviders{
		TracerProvider: tracerProvider,
		MeterProvider:  meterProvider,
		Resource:       res,
		SpanExporter:   spanExporter,
		MetricReader:   metricReader,
	}
}

// CollectMetrics reads all metrics recorded so far.
func (p *TestObservabilityProviders) CollectMetrics(ctx context.Context) (metricdata.ResourceMetrics, error) {
	var resourceMetrics metricdata.ResourceMetrics
	err := p.MetricReader.Collect(ctx, &resourceMetrics)

	return resourceMetrics, err
}

// Shutdown gracefully shuts down the OpenTelemetry providers.
func (p *TestObservabilityProviders) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return errors.Join(
		p.TracerProvider.Shutdown(ctx),
		p.MeterProvider.Shutdown(ctx),
	)
}
