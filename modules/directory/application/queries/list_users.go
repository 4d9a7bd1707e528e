package queries

import (
	"context"
	"time"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/directory/view"
)

// SnapshotSource provides the collection snapshot to render.
type SnapshotSource interface {
	Current() *domain.Snapshot
}

// UserListDTO is the rendered user list plus the status of the last fetch.
type UserListDTO struct {
	view.ListView
	FetchedAt  time.Time `json:"fetched_at"`
	FetchError string    `json:"fetch_error,omitempty"`
}

// ListUsersQuery carries the caller-owned list state.
type ListUsersQuery struct {
	view.Query
}

// ListUsersHandler renders the current snapshot. It never fetches.
type ListUsersHandler struct {
	source SnapshotSource
}

func NewListUsersHandler(source SnapshotSource) *ListUsersHandler {
	return &ListUsersHandler{source: source}
}

// Handle executes the list users query.
func (h *ListUsersHandler) Handle(_ context.Context, query ListUsersQuery) (*UserListDTO, error) {
	snap := h.source.Current()

	v, err := view.Build(snap.Users(), query.Query)
	if err != nil {
		return nil, err
	}

	dto := &UserListDTO{
		ListView:  v,
		FetchedAt: snap.FetchedAt(),
	}
	if snap.Failed() {
		dto.FetchError = snap.Err().Error()
	}
	return dto, nil
}
