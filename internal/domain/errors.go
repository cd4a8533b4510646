package domain

import "errors"

// Sentinel errors for the service's error taxonomy - match with errors.Is().
//
// Cache failures never surface through these: the cache layer absorbs its own
// errors and degrades to store reads. ErrUnavailable is reserved for the
// authoritative store and the object store.
var (
	// ErrNotFound indicates the target id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrConflict indicates the resource already exists.
	ErrConflict = errors.New("already exists")

	// ErrValidation indicates invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrUnauthenticated indicates no or invalid credential was presented.
	// Public targets remain reachable; the caller should log in and retry.
	ErrUnauthenticated = errors.New("authentication required")

	// ErrForbidden indicates an authenticated caller lacking access.
	// No retry will help.
	ErrForbidden = errors.New("forbidden")

	// ErrUnavailable indicates the backing store or the object store failed.
	ErrUnavailable = errors.New("service unavailable")
)
