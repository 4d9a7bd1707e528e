// Package view is the user list view-model engine.
// It turns an immutable snapshot of user records into the filtered, sorted
// and paginated page the operator sees, plus the facets used to populate
// filter controls. Every function here is pure: inputs are never mutated
// and nothing blocks.
package view

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultPageSize is the page size used when the caller does not pick one.
const DefaultPageSize = 6

var (
	ErrInvalidPage     = errors.New("page must be positive")
	ErrInvalidPageSize = errors.New("page size must be positive")
	ErrInvalidSortMode = errors.New("unknown sort mode")
)

// Criteria selects which records are visible.
// Each field is independent; an empty field imposes no constraint.
type Criteria struct {
	// Search is matched case-insensitively against name, email and
	// company name, and digit-wise against the phone number.
	Search string
	// Company must equal the record's company name exactly.
	Company string
	// Letter must equal the first letter of the record's name, ignoring case.
	Letter string
}

// IsZero reports whether no constraint is set.
func (c Criteria) IsZero() bool {
	return c == Criteria{}
}

// SortMode orders records by name.
type SortMode int

const (
	// SortNone keeps insertion order.
	SortNone SortMode = iota
	SortAscending
	SortDescending
)

func (m SortMode) String() string {
	switch m {
	case SortAscending:
		return "asc"
	case SortDescending:
		return "desc"
	default:
		return "none"
	}
}

// ParseSortMode accepts "none", "asc"/"ascending" and "desc"/"descending".
func ParseSortMode(s string) (SortMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none":
		return SortNone, nil
	case "asc", "ascending":
		return SortAscending, nil
	case "desc", "descending":
		return SortDescending, nil
	default:
		return SortNone, fmt.Errorf("%w: %q", ErrInvalidSortMode, s)
	}
}

// Query is everything Build needs besides the records themselves.
type Query struct {
	Criteria Criteria
	Sort     SortMode
	Page     int
	PageSize int
}
