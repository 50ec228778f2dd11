// Package telemetry wires OpenTelemetry tracing.
//
// Setup installs an OTLP/HTTP exporter behind a batching tracer provider when
// tracing is enabled. The paginator and reconciler create their spans through
// the global provider, so with tracing disabled they fall back to no-ops.
package telemetry
