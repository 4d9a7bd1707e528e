package types

import "errors"

// Sentinel errors for common validation failures.
// Define errors in the types package where the validated types live.
var (
	ErrInvalidID = errors.New("invalid identifier format")

	// ErrInvalidUser is matched by every *ValidationError via errors.Is.
	ErrInvalidUser = errors.New("invalid user")

	ErrNameRequired  = errors.New("name is required")
	ErrEmailRequired = errors.New("email is required")
	ErrEmailInvalid  = errors.New("email format is invalid")
	ErrPhoneRequired = errors.New("phone is required")
)
