// Package testdoubles provides test doubles (spies) for the observability interfaces.
//
// This package contains spy implementations for the dependency-free observability
// interfaces used by observable.Observable and eventsource.Source:
//   - LogHandlerSpy: captures slog handler calls and attributes
//   - ContextualLoggerSpy: captures structured logging with context
//   - MetricsCollectorSpy: captures metrics recording calls for verification
//   - TracingCollectorSpy: captures tracing spans with their final status
//
// These test doubles enable testing of observability instrumentation
// without requiring actual telemetry backends.
package testdoubles
