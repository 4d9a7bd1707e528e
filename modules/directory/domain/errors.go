package domain

import "errors"

// Directory errors. Validation failures are reported as *types.ValidationError
// and never reach the gateway.
var (
	// ErrFetchFailed means the collection could not be read (network error or non-2xx).
	ErrFetchFailed = errors.New("failed to fetch users")
	// ErrWriteFailed means a create, update or delete was rejected or never arrived.
	ErrWriteFailed = errors.New("operation failed")
	// ErrInvalidData means the backend answered with a payload of the wrong shape.
	ErrInvalidData = errors.New("invalid data received")
	// ErrIDRequired is returned when updating or deleting a record that was never persisted.
	ErrIDRequired = errors.New("user ID is required")
)
