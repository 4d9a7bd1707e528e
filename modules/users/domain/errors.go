package domain

import "errors"

// Domain errors - business rule violations.
// Field-level validation failures are *types.ValidationError values.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserDeleted  = errors.New("user has been deleted")
	ErrIDExhausted  = errors.New("no numeric user ID left")
)
