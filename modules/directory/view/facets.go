package view

import (
	"slices"
	"unicode"

	"golang.org/x/text/collate"

	"github.com/rai/userdirectory/modules/shared/types"
)

// CompanyFacet is one entry of the company filter control.
// Absent stands for every record that has no company name.
type CompanyFacet struct {
	Name   string `json:"name,omitempty"`
	Absent bool   `json:"absent,omitempty"`
}

func (f CompanyFacet) String() string {
	if f.Absent {
		return "(no company)"
	}
	return f.Name
}

// DistinctCompanies returns the unique company names in first-seen order.
// Records without a company contribute a single Absent entry.
func DistinctCompanies(records []types.UserRecord) []CompanyFacet {
	result := []CompanyFacet{}
	seen := make(map[string]struct{})
	absentSeen := false

	for _, u := range records {
		name, ok := u.CompanyName()
		if !ok {
			if !absentSeen {
				absentSeen = true
				result = append(result, CompanyFacet{Absent: true})
			}
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		result = append(result, CompanyFacet{Name: name})
	}
	return result
}

// CompanyNames is DistinctCompanies without the Absent entry.
func CompanyNames(records []types.UserRecord) []string {
	var names []string
	for _, f := range DistinctCompanies(records) {
		if !f.Absent {
			names = append(names, f.Name)
		}
	}
	return names
}

// AvailableFirstLetters returns the upper-cased first letters of the names,
// de-duplicated and in collation order. Names starting with anything but a
// letter are skipped. Callers pass the unfiltered snapshot so the index
// does not shrink while the operator types.
func AvailableFirstLetters(records []types.UserRecord) []string {
	letters := []string{}
	seen := make(map[rune]struct{})

	for _, u := range records {
		r, ok := firstRune(u.Name)
		if !ok || !unicode.IsLetter(r) {
			continue
		}
		r = unicode.ToUpper(r)
		if _, dup := seen[r]; dup {
			continue
		}
		seen[r] = struct{}{}
		letters = append(letters, string(r))
	}

	c := collate.New(SortLocale)
	slices.SortFunc(letters, c.CompareString)
	return letters
}
