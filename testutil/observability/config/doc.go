// Package config provides OpenTelemetry providers for testing the spies observability adapters.
//
// The providers keep all telemetry in memory (a manual metric reader and an in-memory span exporter),
// so tests can verify that a spies.Registry emits metrics and traces without any external
// observability infrastructure.
package config
