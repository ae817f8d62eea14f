package services

import "errors"

// Sentinel errors forming the service error taxonomy. Handlers map these to
// HTTP statuses; anything else surfaces as an opaque 500.
var (
	// ErrUnauthenticated is returned when the caller's credentials are
	// missing, invalid or expired
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrNotFound is returned when a resource does not exist. It also covers
	// resources that exist but belong to another user, so ownership cannot be
	// probed by id.
	ErrNotFound = errors.New("resource not found")

	// ErrConflict is returned when a uniqueness rule is violated
	ErrConflict = errors.New("resource already exists")

	// ErrValidation is returned when the request payload fails validation
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity is returned when stored data cannot be interpreted.
	// Callers log the underlying cause loudly; clients get an opaque error.
	ErrIntegrity = errors.New("data integrity error")
)
