// Package testdoubles provides recording test doubles for the spies observability and reporting interfaces.
//
//   - LoggerSpy: captures Logger and ContextualLogger calls
//   - MetricsCollectorSpy: captures metrics recording calls
//   - TracingCollectorSpy: captures started and finished spans
//   - ReporterSpy: captures Reporter assertions
//   - LogHandlerSpy: a slog.Handler capturing records, with a fluent matcher for level, message and attributes
//
// They let the module test its own instrumentation without telemetry backends or a real test framework sink.
package testdoubles
