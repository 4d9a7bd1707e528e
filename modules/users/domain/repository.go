package domain

import (
	"context"

	"github.com/rai/userdirectory/modules/shared/types"
)

// UserRepository defines the persistence interface for users.
// This is a port - defined in domain, implemented in infrastructure.
type UserRepository interface {
	// Save persists a user (create or update). A user marked deleted is
	// removed instead.
	Save(ctx context.Context, user *User) error

	// FindByID retrieves a user by ID.
	// Returns ErrUserNotFound if user doesn't exist.
	FindByID(ctx context.Context, id types.UserID) (*User, error)

	// FindAll returns every user in insertion order.
	FindAll(ctx context.Context) ([]*User, error)
}

// IDGenerator assigns IDs to new users. It is called inside the write
// transaction that saves the user.
type IDGenerator interface {
	NextID(ctx context.Context) (types.UserID, error)
}
