// Package domain contains the business entities and rules for users.
// This is the innermost layer - it has no dependencies on outer layers.
package domain

import (
	"time"

	shareddomain "github.com/rai/userdirectory/modules/shared/domain"
	"github.com/rai/userdirectory/modules/shared/types"
)

// User is the aggregate root for the user bounded context.
type User struct {
	shareddomain.AggregateRoot

	id        types.UserID
	profile   Profile
	deleted   bool
	createdAt time.Time
	updatedAt time.Time
}

// NewUser creates a user with an ID assigned by the caller's ID strategy.
// Adds UserCreatedEvent to be dispatched after persistence.
func NewUser(id types.UserID, profile Profile, now time.Time) *User {
	u := &User{
		id:        id,
		profile:   profile,
		createdAt: now.UTC(),
		updatedAt: now.UTC(),
	}
	u.AddDomainEvent(NewUserCreatedEvent(u))
	return u
}

// Reconstitute recreates a User from persistence.
func Reconstitute(id types.UserID, profile Profile, createdAt, updatedAt time.Time) *User {
	return &User{
		id:        id,
		profile:   profile,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (u *User) ID() types.UserID     { return u.id }
func (u *User) Profile() Profile     { return u.profile }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }
func (u *User) IsDeleted() bool      { return u.deleted }

// UpdateProfile replaces the profile. Saving an identical profile records
// no event.
func (u *User) UpdateProfile(profile Profile, now time.Time) error {
	if u.deleted {
		return ErrUserDeleted
	}
	if u.profile.Equals(profile) {
		return nil
	}
	u.profile = profile
	u.updatedAt = now.UTC()
	u.AddDomainEvent(NewUserUpdatedEvent(u))
	return nil
}

// Delete marks the user for removal. Repositories remove deleted users
// instead of storing them.
func (u *User) Delete() error {
	if u.deleted {
		return ErrUserDeleted
	}
	u.deleted = true
	u.AddDomainEvent(NewUserDeletedEvent(u.id))
	return nil
}

// Record is the wire representation served by the REST API.
func (u *User) Record() types.UserRecord {
	id := u.id
	r := types.UserRecord{
		ID:    &id,
		Name:  u.profile.name,
		Email: u.profile.email,
		Phone: u.profile.phone,
	}
	if name, ok := u.profile.Company(); ok {
		r.Company = types.NewCompany(name)
	}
	return r
}
