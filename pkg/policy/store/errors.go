package store

import "fmt"

// LoadError indicates a policy file could not be read or parsed.
type LoadError struct {
	FilePath string
	Message  string
	Cause    error
}

// Error returns the error message.
func (e *LoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("policy load %s: %s: %v", e.FilePath, e.Message, e.Cause)
	}
	return fmt.Sprintf("policy load %s: %s", e.FilePath, e.Message)
}

// Unwrap returns the underlying cause.
func (e *LoadError) Unwrap() error {
	return e.Cause
}

// ErrorList collects per-file load errors while allowing a partial load to
// succeed.
type ErrorList struct {
	Errors []error
}

// Add appends an error to the list.
func (l *ErrorList) Add(err error) {
	l.Errors = append(l.Errors, err)
}

// HasErrors reports whether any error was collected.
func (l *ErrorList) HasErrors() bool {
	return len(l.Errors) > 0
}

// Error returns the combined error message.
func (l *ErrorList) Error() string {
	if len(l.Errors) == 1 {
		return l.Errors[0].Error()
	}
	return fmt.Sprintf("%d policy files failed to load (first: %v)", len(l.Errors), l.Errors[0])
}
