// Package handlers implements the HTTP API for the compliance service.
//
// Endpoints:
//
//	POST /v1/postures                    ingest a posture snapshot and evaluate it
//	GET  /v1/devices/{id}/compliance     evaluate the latest stored posture
//	GET  /v1/devices/{id}/audit          read the device's audit trail
//	GET  /v1/policies                    inspect the loaded policy set
//
// Handlers depend on narrow interfaces so they can be tested against the
// engine and stores without a running server.
package handlers
