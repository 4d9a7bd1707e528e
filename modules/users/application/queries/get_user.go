// Package queries contains read use cases for the users module.
// Queries return data and don't change state (CQRS pattern).
package queries

import (
	"context"

	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// GetUserQuery represents a request to get a user by ID.
type GetUserQuery struct {
	UserID types.UserID
}

// GetUserHandler handles GetUserQuery.
type GetUserHandler struct {
	repo domain.UserRepository
}

func NewGetUserHandler(repo domain.UserRepository) *GetUserHandler {
	return &GetUserHandler{repo: repo}
}

// Handle executes the get user query.
func (h *GetUserHandler) Handle(ctx context.Context, query GetUserQuery) (types.UserRecord, error) {
	if query.UserID.IsZero() {
		return types.UserRecord{}, types.ErrInvalidID
	}

	user, err := h.repo.FindByID(ctx, query.UserID)
	if err != nil {
		return types.UserRecord{}, err
	}
	return user.Record(), nil
}
