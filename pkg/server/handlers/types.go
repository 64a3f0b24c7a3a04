package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"northgate/sentinel/pkg/engine"
	"northgate/sentinel/pkg/policy"
	"northgate/sentinel/pkg/posture"
)

// Evaluator evaluates posture records against the applicable policy set.
// Satisfied by *engine.Engine.
type Evaluator interface {
	Evaluate(ctx context.Context, rec *posture.Record) (*engine.EvaluationResult, error)
}

// PostureStore is the subset of the posture store the API needs.
type PostureStore interface {
	Put(ctx context.Context, rec *posture.Record) error
	Get(ctx context.Context, deviceID string) (*posture.Record, error)
}

// PolicyCatalog is the subset of the policy registry the API needs.
type PolicyCatalog interface {
	Policies() []*policy.Definition
	Fingerprint() string
}

// ErrorDetail describes a single API error.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for all API errors.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError writes an API error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
