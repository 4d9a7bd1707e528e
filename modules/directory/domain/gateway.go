package domain

import (
	"context"

	"github.com/rai/userdirectory/modules/shared/types"
)

// UserGateway is the REST collaborator that owns the user collection.
// This is a port - defined in domain, implemented in infrastructure.
type UserGateway interface {
	// List returns the whole collection.
	List(ctx context.Context) ([]types.UserRecord, error)

	// Create submits a record without an ID and returns it with the
	// server-assigned ID.
	Create(ctx context.Context, user types.UserRecord) (types.UserRecord, error)

	// Update replaces the record identified by user.ID.
	Update(ctx context.Context, user types.UserRecord) error

	// Delete removes the record. Only success or failure is reported.
	Delete(ctx context.Context, id types.UserID) error
}
