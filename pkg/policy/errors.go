package policy

import (
	"fmt"
	"strings"
)

// ValidationError reports structural problems in a policy definition.
type ValidationError struct {
	PolicyID string
	Problems []string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	id := e.PolicyID
	if id == "" {
		id = "<unknown>"
	}
	if len(e.Problems) == 1 {
		return fmt.Sprintf("policy %s: %s", id, e.Problems[0])
	}
	return fmt.Sprintf("policy %s: %d validation errors: %s",
		id, len(e.Problems), strings.Join(e.Problems, "; "))
}
