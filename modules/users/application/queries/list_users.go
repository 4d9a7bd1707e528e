package queries

import (
	"context"

	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// ListUsersQuery asks for the whole collection; the directory filters and
// paginates on its side.
type ListUsersQuery struct{}

// ListUsersHandler handles ListUsersQuery.
type ListUsersHandler struct {
	repo      domain.UserRepository
	readScope transaction.Scope
}

// NewListUsersHandler reads inside readScope so that large stores are read
// from a single consistent snapshot. Pass transaction.NoScope when the
// store needs none.
func NewListUsersHandler(repo domain.UserRepository, readScope transaction.Scope) *ListUsersHandler {
	if readScope == nil {
		readScope = transaction.NoScope
	}
	return &ListUsersHandler{repo: repo, readScope: readScope}
}

// Handle executes the list users query. The result is never nil.
func (h *ListUsersHandler) Handle(ctx context.Context, _ ListUsersQuery) ([]types.UserRecord, error) {
	return transaction.ExecuteWithResult(ctx, h.readScope, func(ctx context.Context) ([]types.UserRecord, error) {
		users, err := h.repo.FindAll(ctx)
		if err != nil {
			return nil, err
		}

		records := make([]types.UserRecord, len(users))
		for i, u := range users {
			records[i] = u.Record()
		}
		return records, nil
	})
}
