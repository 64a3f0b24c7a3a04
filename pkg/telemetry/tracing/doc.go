// Package tracing provides distributed tracing via OpenTelemetry.
//
// Spans are exported over OTLP gRPC to a collector configured in the
// telemetry section. Sampling is parent-based with a configurable ratio.
// When tracing is disabled the returned tracer is a noop with negligible
// overhead, so callers can instrument unconditionally.
package tracing
