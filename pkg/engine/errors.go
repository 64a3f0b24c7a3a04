package engine

import "fmt"

// ErrorKind classifies evaluation failures so callers can distinguish
// "device is unsafe" from "we could not determine safety".
type ErrorKind string

const (
	// KindMalformedPosture indicates the posture record is missing or
	// fails validation. The accompanying result is NonCompliant.
	KindMalformedPosture ErrorKind = "malformed_posture"

	// KindResolutionError indicates the directory or catalog lookup
	// failed. No compliance verdict is produced.
	KindResolutionError ErrorKind = "resolution_error"
)

// EvaluationError is the engine's error type.
type EvaluationError struct {
	Kind     ErrorKind
	DeviceID string
	Cause    error
}

// NewEvaluationError creates an EvaluationError.
func NewEvaluationError(kind ErrorKind, deviceID string, cause error) *EvaluationError {
	return &EvaluationError{Kind: kind, DeviceID: deviceID, Cause: cause}
}

// Error returns the error message.
func (e *EvaluationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("evaluation failed for device %s (%s): %v", e.DeviceID, e.Kind, e.Cause)
	}
	return fmt.Sprintf("evaluation failed for device %s (%s)", e.DeviceID, e.Kind)
}

// Unwrap returns the underlying cause.
func (e *EvaluationError) Unwrap() error {
	return e.Cause
}
