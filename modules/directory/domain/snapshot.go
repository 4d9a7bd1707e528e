// Package domain contains the directory's client-side model: the immutable
// collection snapshot and the port to the REST collaborator.
package domain

import (
	"time"

	"github.com/rai/userdirectory/modules/shared/types"
)

// Snapshot is an immutable view of the user collection at one point in time.
// A failed fetch produces an empty snapshot whose Err is set.
type Snapshot struct {
	users     []types.UserRecord
	fetchedAt time.Time
	err       error
}

// NewSnapshot copies users into a new snapshot.
func NewSnapshot(users []types.UserRecord, fetchedAt time.Time) *Snapshot {
	return &Snapshot{users: cloneAll(users), fetchedAt: fetchedAt}
}

// FailedSnapshot is the empty snapshot that stands in for a failed fetch.
func FailedSnapshot(err error, at time.Time) *Snapshot {
	return &Snapshot{users: []types.UserRecord{}, fetchedAt: at, err: err}
}

// EmptySnapshot is the state before the first fetch.
func EmptySnapshot() *Snapshot {
	return &Snapshot{users: []types.UserRecord{}}
}

// Users returns a copy of the records; the snapshot itself never changes.
func (s *Snapshot) Users() []types.UserRecord {
	return cloneAll(s.users)
}

func (s *Snapshot) Len() int             { return len(s.users) }
func (s *Snapshot) FetchedAt() time.Time { return s.fetchedAt }

// Err is the fetch error that produced this snapshot, if any.
func (s *Snapshot) Err() error { return s.err }

// Failed reports whether the snapshot stands in for a failed fetch.
func (s *Snapshot) Failed() bool { return s.err != nil }

// Find returns the record with the given ID.
func (s *Snapshot) Find(id types.UserID) (types.UserRecord, bool) {
	for _, u := range s.users {
		if u.ID != nil && u.ID.Equals(id) {
			return u.Clone(), true
		}
	}
	return types.UserRecord{}, false
}

func cloneAll(users []types.UserRecord) []types.UserRecord {
	cloned := make([]types.UserRecord, len(users))
	for i, u := range users {
		cloned[i] = u.Clone()
	}
	return cloned
}
