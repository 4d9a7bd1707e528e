// Package types provides shared value objects and type definitions
// used by both the directory client and the users backend (Shared Kernel pattern).
package types

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// UserID identifies a persisted user record.
// The backend may hand out numeric or string identifiers; UserID keeps
// the original JSON kind so a record round-trips unchanged.
type UserID struct {
	value   string
	numeric bool
}

// NewUserID returns a random string identifier.
func NewUserID() UserID {
	return UserID{value: uuid.New().String()}
}

// NumericUserID returns an identifier that is encoded as a JSON number.
func NumericUserID(n int64) UserID {
	return UserID{value: strconv.FormatInt(n, 10), numeric: true}
}

// ParseUserID parses an identifier taken from a URL path or a CLI flag.
// Decimal integers become numeric identifiers, anything else a string one.
func ParseUserID(s string) (UserID, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return UserID{}, ErrInvalidID
	}
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return UserID{value: s, numeric: true}, nil
	}
	return UserID{value: s}, nil
}

func (id UserID) String() string  { return id.value }
func (id UserID) IsZero() bool    { return id.value == "" }
func (id UserID) IsNumeric() bool { return id.numeric }

// Int64 returns the numeric value of a numeric identifier.
func (id UserID) Int64() (int64, bool) {
	if !id.numeric {
		return 0, false
	}
	n, err := strconv.ParseInt(id.value, 10, 64)
	return n, err == nil
}

// Equals compares identifiers by their textual form, so 7 and "7" are the same record.
func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}

func (id UserID) MarshalJSON() ([]byte, error) {
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = UserID{}
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			return ErrInvalidID
		}
		*id = UserID{value: s}
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidID
	}
	if _, err := n.Int64(); err != nil {
		return ErrInvalidID
	}
	*id = UserID{value: n.String(), numeric: true}
	return nil
}
