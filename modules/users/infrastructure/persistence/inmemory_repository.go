// Package persistence implements repository interfaces using specific storage backends.
// This is the outermost layer - it implements ports defined in the domain layer.
package persistence

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// row is the stored form of a user. Rows are values, so a copy of the
// slice is a snapshot that later writes cannot touch.
type row struct {
	record    types.UserRecord
	createdAt time.Time
	updatedAt time.Time
}

func toRow(u *domain.User) row {
	return row{record: u.Record(), createdAt: u.CreatedAt(), updatedAt: u.UpdatedAt()}
}

func (r row) user() *domain.User {
	return domain.Reconstitute(*r.record.ID, domain.RestoreProfile(r.record), r.createdAt, r.updatedAt)
}

func cloneRows(rows []row) []row {
	out := make([]row, len(rows))
	for i, r := range rows {
		out[i] = row{record: r.record.Clone(), createdAt: r.createdAt, updatedAt: r.updatedAt}
	}
	return out
}

type txKey struct{}

// InMemoryRepository implements UserRepository using in-memory storage,
// in insertion order. It is also a transaction.Scope: write transactions
// are serialised and roll the store back when they fail.
type InMemoryRepository struct {
	txMu sync.Mutex // held for the whole of a write transaction

	mu   sync.RWMutex
	rows []row

	// commit runs with the committed rows before a transaction returns.
	// An error rolls the transaction back.
	commit func(rows []row) error
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{}
}

var (
	_ domain.UserRepository = (*InMemoryRepository)(nil)
	_ transaction.Scope     = (*InMemoryRepository)(nil)
)

// Execute implements transaction.Scope. Nested calls join the outer transaction.
func (r *InMemoryRepository) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) == r {
		return fn(ctx)
	}

	r.txMu.Lock()
	defer r.txMu.Unlock()

	r.mu.RLock()
	before := cloneRows(r.rows)
	r.mu.RUnlock()

	err := fn(context.WithValue(ctx, txKey{}, r))
	if err == nil && r.commit != nil {
		r.mu.RLock()
		committed := cloneRows(r.rows)
		r.mu.RUnlock()
		err = r.commit(committed)
	}
	if err != nil {
		r.mu.Lock()
		r.rows = before
		r.mu.Unlock()
	}
	return err
}

func (r *InMemoryRepository) Save(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.indexOf(user.ID())
	switch {
	case user.IsDeleted():
		if i >= 0 {
			r.rows = slices.Delete(r.rows, i, i+1)
		}
	case i >= 0:
		r.rows[i] = toRow(user)
	default:
		r.rows = append(r.rows, toRow(user))
	}
	return nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id types.UserID) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.indexOf(id)
	if i < 0 {
		return nil, domain.ErrUserNotFound
	}
	return r.rows[i].user(), nil
}

func (r *InMemoryRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]*domain.User, 0, len(r.rows))
	for _, rw := range r.rows {
		users = append(users, rw.user())
	}
	return users, nil
}

// Len returns the number of stored users.
func (r *InMemoryRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rows)
}

// load replaces the contents without running a transaction.
func (r *InMemoryRepository) load(rows []row) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = rows
}

func (r *InMemoryRepository) indexOf(id types.UserID) int {
	return slices.IndexFunc(r.rows, func(rw row) bool {
		return rw.record.ID.Equals(id)
	})
}
