package posture

import (
	"fmt"
	"strings"
)

// ValidationError reports which required posture fields are missing or
// invalid. The engine maps it to a malformed-posture evaluation error and
// fails closed; a device with an unreadable posture is never reported
// Compliant.
type ValidationError struct {
	DeviceID string
	Fields   []string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	if len(e.Fields) == 1 {
		return fmt.Sprintf("posture for device %q: invalid field %s", e.DeviceID, e.Fields[0])
	}
	return fmt.Sprintf("posture for device %q: %d invalid fields: %s",
		e.DeviceID, len(e.Fields), strings.Join(e.Fields, ", "))
}

// VersionParseError reports a version string that could not be compared
// numerically (empty, or a non-numeric component).
type VersionParseError struct {
	Version   string
	Component string
}

// Error returns the error message.
func (e *VersionParseError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("unparseable version %q: non-numeric component %q", e.Version, e.Component)
	}
	return fmt.Sprintf("unparseable version %q", e.Version)
}
