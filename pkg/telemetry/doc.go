// Package telemetry provides observability for the Sentinel compliance
// service. It is organized into subpackages:
//
//   - logging: structured logging built on log/slog
//   - metrics: Prometheus metrics for evaluations, caching, and auditing
//   - health: liveness and readiness probes
//   - tracing: distributed tracing via OpenTelemetry
//
// Each subpackage is independently usable; the service wires them together
// at startup from the telemetry section of the configuration.
package telemetry
