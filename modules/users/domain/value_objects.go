package domain

import (
	"strings"

	"github.com/rai/userdirectory/modules/shared/types"
)

// Profile is the editable part of a user: everything except identity and
// timestamps. It is always valid once constructed.
type Profile struct {
	name    string
	email   string
	phone   string
	company *string
}

// NewProfile validates the fields of a record and returns them as a Profile.
// The ID of the record is ignored. Surrounding spaces are trimmed from
// name and email; phone is kept as entered.
func NewProfile(u types.UserRecord) (Profile, error) {
	if err := types.ValidateUser(u); err != nil {
		return Profile{}, err
	}
	p := Profile{
		name:  strings.TrimSpace(u.Name),
		email: strings.TrimSpace(u.Email),
		phone: u.Phone,
	}
	if name, ok := u.CompanyName(); ok {
		p.company = &name
	}
	return p, nil
}

// RestoreProfile rebuilds a profile from storage without validating it.
// Stores may hold records written by other tools.
func RestoreProfile(u types.UserRecord) Profile {
	p := Profile{name: u.Name, email: u.Email, phone: u.Phone}
	if name, ok := u.CompanyName(); ok {
		p.company = &name
	}
	return p
}

func (p Profile) Name() string  { return p.name }
func (p Profile) Email() string { return p.email }
func (p Profile) Phone() string { return p.phone }

// Company returns the company name and whether one is recorded.
func (p Profile) Company() (string, bool) {
	if p.company == nil {
		return "", false
	}
	return *p.company, true
}

func (p Profile) Equals(other Profile) bool {
	a, aok := p.Company()
	b, bok := other.Company()
	return p.name == other.name &&
		p.email == other.email &&
		p.phone == other.phone &&
		aok == bok && a == b
}
