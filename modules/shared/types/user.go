package types

// Company is the employer sub-structure of a user record.
// A nil Name means the company is unknown, which is not the same as "".
type Company struct {
	Name *string `json:"name,omitempty"`
}

// UserRecord is one entry of the user directory as exchanged over REST.
// A nil ID marks a record that has not been persisted yet.
type UserRecord struct {
	ID      *UserID  `json:"id,omitempty"`
	Name    string   `json:"name"`
	Email   string   `json:"email"`
	Phone   string   `json:"phone"`
	Company *Company `json:"company,omitempty"`
}

// CompanyName returns the company name and whether one is present.
func (u UserRecord) CompanyName() (string, bool) {
	if u.Company == nil || u.Company.Name == nil {
		return "", false
	}
	return *u.Company.Name, true
}

// HasID reports whether the record carries a server-assigned identifier.
func (u UserRecord) HasID() bool {
	return u.ID != nil && !u.ID.IsZero()
}

// WithID returns a copy of the record carrying id.
func (u UserRecord) WithID(id UserID) UserRecord {
	u.ID = &id
	return u
}

// WithoutID returns a copy of the record with its identifier removed.
func (u UserRecord) WithoutID() UserRecord {
	u.ID = nil
	return u
}

// Clone returns a deep copy so callers never share company pointers.
func (u UserRecord) Clone() UserRecord {
	if u.ID != nil {
		id := *u.ID
		u.ID = &id
	}
	if u.Company != nil {
		c := Company{}
		if u.Company.Name != nil {
			name := *u.Company.Name
			c.Name = &name
		}
		u.Company = &c
	}
	return u
}

// NewCompany is a convenience for building a company with a name.
func NewCompany(name string) *Company {
	return &Company{Name: &name}
}
