package resolver

import "fmt"

// LookupError indicates the directory lookup for a device failed or timed
// out. Callers must surface it as a resolution error, not treat it as an
// empty policy set.
type LookupError struct {
	DeviceID string
	Cause    error
}

// Error returns the error message.
func (e *LookupError) Error() string {
	return fmt.Sprintf("scope resolution failed for device %q: %v", e.DeviceID, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *LookupError) Unwrap() error {
	return e.Cause
}
