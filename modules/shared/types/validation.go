package types

import (
	"regexp"
	"sort"
	"strings"
)

// Field keys used in ValidationError.
const (
	FieldName  = "name"
	FieldEmail = "email"
	FieldPhone = "phone"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidationError reports which fields of a record were rejected.
// Each entry maps a field key to a user-displayable message.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "invalid user: " + strings.Join(parts, "; ")
}

// Is lets errors.Is(err, ErrInvalidUser) match any validation failure.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidUser
}

// Field returns the message for key, or "" when the field passed.
func (e *ValidationError) Field(key string) string {
	return e.Fields[key]
}

// ValidateUser checks the fields a write requires: a non-empty name,
// a syntactically valid email and a non-empty phone.
// It returns nil or a *ValidationError.
func ValidateUser(u UserRecord) error {
	fields := make(map[string]string)

	if strings.TrimSpace(u.Name) == "" {
		fields[FieldName] = ErrNameRequired.Error()
	}

	email := strings.TrimSpace(u.Email)
	switch {
	case email == "":
		fields[FieldEmail] = ErrEmailRequired.Error()
	case !emailRegex.MatchString(email):
		fields[FieldEmail] = ErrEmailInvalid.Error()
	}

	if strings.TrimSpace(u.Phone) == "" {
		fields[FieldPhone] = ErrPhoneRequired.Error()
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields}
}
