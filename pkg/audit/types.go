package audit

import (
	"context"
	"time"
)

// Event records a single device compliance status transition.
type Event struct {
	// ID is a UUID v4 assigned at recording time.
	ID string `json:"id"`

	// DeviceID identifies the device that transitioned.
	DeviceID string `json:"device_id"`

	// PreviousStatus is the status before the transition; empty for the
	// first evaluation of a device.
	PreviousStatus string `json:"previous_status"`

	// NewStatus is the status after the transition.
	NewStatus string `json:"new_status"`

	// EvaluatedAt is when the evaluation that caused the transition ran.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// RecordedAt is when the event was recorded.
	RecordedAt time.Time `json:"recorded_at"`

	// PostureFingerprint and PolicyFingerprint identify the exact inputs
	// of the evaluation, for forensics.
	PostureFingerprint string `json:"posture_fingerprint"`
	PolicyFingerprint  string `json:"policy_fingerprint"`

	// Violations carries the violated requirements at transition time;
	// empty when the device transitioned to Compliant.
	Violations []ViolationRecord `json:"violations"`
}

// ViolationRecord captures one violated requirement inside an event.
type ViolationRecord struct {
	PolicyID        string      `json:"policy_id"`
	PolicyVersion   int         `json:"policy_version"`
	RequirementPath string      `json:"requirement_path"`
	Expected        interface{} `json:"expected"`
	Actual          interface{} `json:"actual"`
	Reason          string      `json:"reason"`
}

// Emitter receives status transition events. Implementations must be safe
// for concurrent use and should return quickly; long-running delivery
// belongs behind a queue.
type Emitter interface {
	// Emit records a transition event. The context carries the caller's
	// deadline; an emitter that cannot accept the event in time returns
	// an error rather than blocking.
	Emit(ctx context.Context, event *Event) error
}

// Query defines filter parameters for reading recorded events.
type Query struct {
	DeviceID  string     `json:"device_id,omitempty"`
	NewStatus string     `json:"new_status,omitempty"`
	StartTime *time.Time `json:"start_time,omitempty"` // inclusive, on EvaluatedAt
	EndTime   *time.Time `json:"end_time,omitempty"`   // inclusive, on EvaluatedAt

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`
}

// Storage is the persistence backend for audit events. Implementations
// must be thread-safe.
type Storage interface {
	// Store persists an event.
	Store(ctx context.Context, event *Event) error

	// Query returns events matching the filters, newest first.
	Query(ctx context.Context, query *Query) ([]*Event, error)

	// LastStatus returns the most recent NewStatus recorded for a device,
	// or "" when the device has no events.
	LastStatus(ctx context.Context, deviceID string) (string, error)

	// Delete removes events matching the filters and returns the count.
	// Used by retention pruning.
	Delete(ctx context.Context, query *Query) (int64, error)

	// Close releases backend resources.
	Close() error
}
