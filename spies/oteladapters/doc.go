// Package oteladapters provides OpenTelemetry adapters for the spies observability interfaces.
// These adapters enable plugging a spies.Registry into an existing OpenTelemetry setup
// without implementing the interfaces themselves.
//
//	registry, err := spies.NewRegistry(
//		spies.WithContextualLogger(oteladapters.NewSlogBridgeLogger("spies")),
//		spies.WithMetrics(oteladapters.NewMetricsCollector(meterProvider.Meter("spies"))),
//		spies.WithTracing(oteladapters.NewTracingCollector(tracerProvider.Tracer("spies"))),
//	)
package oteladapters
