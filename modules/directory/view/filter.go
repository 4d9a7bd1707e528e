package view

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"

	"github.com/rai/userdirectory/modules/shared/types"
)

// Filter returns the records matching c, in input order.
// The free-text search runs first, then the letter constraint, and the
// exact company match narrows what is left. A nil input yields an empty
// result.
func Filter(records []types.UserRecord, c Criteria) []types.UserRecord {
	result := make([]types.UserRecord, 0, len(records))
	if len(records) == 0 {
		return result
	}

	m := newMatcher(c)
	for _, u := range records {
		if m.search(u) && m.letter(u) && m.company(u) {
			result = append(result, u)
		}
	}
	return result
}

// Search returns the records whose name, email, company name or phone
// contains term. An empty term matches everything.
func Search(records []types.UserRecord, term string) []types.UserRecord {
	return Filter(records, Criteria{Search: term})
}

// ByCompany returns the records whose company name equals name exactly.
func ByCompany(records []types.UserRecord, name string) []types.UserRecord {
	return Filter(records, Criteria{Company: name})
}

// ByLetter returns the records whose name starts with letter, ignoring case.
func ByLetter(records []types.UserRecord, letter string) []types.UserRecord {
	return Filter(records, Criteria{Letter: letter})
}

// matcher holds the pre-folded criteria for a single Filter call.
// cases.Caser is stateful, so a matcher must not be shared between goroutines.
type matcher struct {
	fold        cases.Caser
	term        string
	termDigits  string
	companyName string
	letterRune  string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{
		fold:        cases.Fold(),
		companyName: c.Company,
	}
	if c.Search != "" {
		m.term = m.fold.String(c.Search)
		m.termDigits = digitsOnly(c.Search)
	}
	if r, _ := utf8.DecodeRuneInString(c.Letter); c.Letter != "" && r != utf8.RuneError {
		m.letterRune = m.fold.String(string(r))
	}
	return m
}

func (m *matcher) search(u types.UserRecord) bool {
	if m.term == "" {
		return true
	}
	if strings.Contains(m.fold.String(u.Name), m.term) {
		return true
	}
	if strings.Contains(m.fold.String(u.Email), m.term) {
		return true
	}
	if name, ok := u.CompanyName(); ok && strings.Contains(m.fold.String(name), m.term) {
		return true
	}
	// A term without digits would reduce to "" and match every phone.
	if m.termDigits != "" && strings.Contains(digitsOnly(u.Phone), m.termDigits) {
		return true
	}
	return false
}

func (m *matcher) company(u types.UserRecord) bool {
	if m.companyName == "" {
		return true
	}
	name, ok := u.CompanyName()
	return ok && name == m.companyName
}

func (m *matcher) letter(u types.UserRecord) bool {
	if m.letterRune == "" {
		return true
	}
	r, ok := firstRune(u.Name)
	return ok && m.fold.String(string(r)) == m.letterRune
}

// firstRune is the literal first character of s; leading spaces count.
func firstRune(s string) (rune, bool) {
	if s == "" {
		return 0, false
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, r != utf8.RuneError
}

func digitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
