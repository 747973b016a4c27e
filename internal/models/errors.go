package models

import "fmt"

// ValidationError reports a field-level invariant violation at construction
// or update time. Callers can correct the input and retry; the pipeline never
// retries automatically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
