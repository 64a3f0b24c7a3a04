// Package server provides the HTTP API server for the compliance service.
//
// The server exposes posture ingestion, on-demand compliance evaluation,
// policy set inspection, audit trail queries, health probes, and the
// Prometheus metrics endpoint. Requests pass through a middleware chain of
// panic recovery, request ID propagation, and structured logging; shutdown
// is graceful with a configurable drain timeout.
package server
