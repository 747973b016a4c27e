package service

import "errors"

// Error kinds surfaced by the services. All four are terminal: the pipeline
// either completes the full authorize -> validate -> persist -> emit sequence
// or none of it, and nothing is retried automatically. Validation failures
// are reported as *models.ValidationError.
var (
	// ErrNotFound: the referenced list, item, membership or account does
	// not exist. Existence is checked before membership, so acting on a
	// real resource without membership yields ErrForbidden, not this.
	ErrNotFound = errors.New("not found")

	// ErrForbidden: the authenticated actor lacks the required role or
	// membership for the operation.
	ErrForbidden = errors.New("forbidden")

	// ErrConflict: duplicate registration or already-a-member.
	ErrConflict = errors.New("conflict")

	// ErrUnauthorized: missing or invalid credentials.
	ErrUnauthorized = errors.New("unauthorized")
)
