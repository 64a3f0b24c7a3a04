package audit

import "fmt"

// StorageError indicates a failure in an audit storage backend.
type StorageError struct {
	Backend   string
	Operation string
	Cause     error
}

// NewStorageError creates a StorageError.
func NewStorageError(backend, operation string, cause error) *StorageError {
	return &StorageError{Backend: backend, Operation: operation, Cause: cause}
}

// Error returns the error message.
func (e *StorageError) Error() string {
	return fmt.Sprintf("audit storage %s: %s failed: %v", e.Backend, e.Operation, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

// RetentionError indicates a retention pruning cycle failed.
type RetentionError struct {
	RetentionDays int
	Cause         error
}

// NewRetentionError creates a RetentionError.
func NewRetentionError(retentionDays int, cause error) *RetentionError {
	return &RetentionError{RetentionDays: retentionDays, Cause: cause}
}

// Error returns the error message.
func (e *RetentionError) Error() string {
	return fmt.Sprintf("audit retention (%d days): %v", e.RetentionDays, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RetentionError) Unwrap() error {
	return e.Cause
}

// RecorderError indicates an event could not be enqueued for recording.
type RecorderError struct {
	EventID string
	Cause   error
}

// NewRecorderError creates a RecorderError.
func NewRecorderError(eventID string, cause error) *RecorderError {
	return &RecorderError{EventID: eventID, Cause: cause}
}

// Error returns the error message.
func (e *RecorderError) Error() string {
	return fmt.Sprintf("audit recorder: event %s dropped: %v", e.EventID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *RecorderError) Unwrap() error {
	return e.Cause
}
