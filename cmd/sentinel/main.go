// Sentinel is a device compliance evaluation service.
//
// It ingests device posture reports, evaluates them against versioned
// compliance policies, and maintains an audit trail of compliance status
// transitions:
//   - Posture ingestion and validation over HTTP
//   - Policy-based compliance evaluation with fail-closed semantics
//   - File- or Git-backed policy definitions with live reload
//   - Append-only audit trail with retention pruning
//   - Prometheus metrics and OpenTelemetry tracing
//
// Usage:
//
//	# Start server with default configuration
//	sentinel run
//
//	# Start with custom configuration file
//	sentinel run --config /path/to/config.yaml
//
//	# Show version information
//	sentinel version
//
//	# Validate policy files
//	sentinel validate --file policies.yaml
//
//	# Evaluate a posture report against policies without a server
//	sentinel evaluate --posture device.json --policies policies.yaml
package main

func main() {
	Execute()
}
