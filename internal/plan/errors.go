package plan

import "strings"

// ValidationError reports a malformed plan document: missing required
// fields, wrong types, or empty required lists. It is never recovered
// from; callers surface it immediately.
type ValidationError struct {
	Details []string
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return "plan validation failed"
	}
	return "plan validation failed: " + strings.Join(e.Details, "; ")
}

func newValidationError(details ...string) *ValidationError {
	return &ValidationError{Details: details}
}
