package view

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/rai/userdirectory/modules/shared/types"
)

// SortLocale is the collation used by Sort. The root collation orders
// Latin before Cyrillic and is what most locales agree on.
var SortLocale = language.Und

// Sort returns a new slice ordered by name according to mode.
// Ties keep their relative input order.
func Sort(records []types.UserRecord, mode SortMode) []types.UserRecord {
	return SortWithLocale(records, mode, SortLocale)
}

// SortWithLocale is Sort with an explicit collation language.
func SortWithLocale(records []types.UserRecord, mode SortMode, tag language.Tag) []types.UserRecord {
	result := slices.Clone(records)
	if result == nil {
		result = []types.UserRecord{}
	}
	if mode == SortNone || len(result) < 2 {
		return result
	}

	// collate.Collator keeps scratch buffers, so each call gets its own.
	c := collate.New(tag)
	slices.SortStableFunc(result, func(a, b types.UserRecord) int {
		if mode == SortDescending {
			return c.CompareString(b.Name, a.Name)
		}
		return c.CompareString(a.Name, b.Name)
	})
	return result
}
