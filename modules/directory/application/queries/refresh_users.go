// Package queries contains read use cases for the directory module.
// Queries return data and don't change the backend (CQRS pattern).
package queries

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
)

// RefreshUsersQuery asks for the collection to be refetched wholesale.
type RefreshUsersQuery struct{}

const refreshKey = "users"

// RefreshUsersHandler fetches the collection and keeps the latest snapshot.
// Concurrent refreshes share a single request. A fetch that started before
// the stored snapshot's fetch never replaces it.
type RefreshUsersHandler struct {
	gateway   domain.UserGateway
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	group   singleflight.Group
	current atomic.Pointer[domain.Snapshot]

	started atomic.Uint64
	mu      sync.Mutex
	stored  uint64 // generation of current; guarded by mu
}

func NewRefreshUsersHandler(gateway domain.UserGateway, publisher events.Publisher, logger *slog.Logger) *RefreshUsersHandler {
	if logger == nil {
		logger = slog.Default()
	}
	h := &RefreshUsersHandler{
		gateway:   gateway,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
	h.current.Store(domain.EmptySnapshot())
	return h
}

// Current returns the latest snapshot without fetching.
func (h *RefreshUsersHandler) Current() *domain.Snapshot {
	return h.current.Load()
}

// Refresh is Handle with an empty query.
func (h *RefreshUsersHandler) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return h.Handle(ctx, RefreshUsersQuery{})
}

// Reload always starts a new fetch instead of joining one in flight.
// Writers use it: a fetch that began before the write may miss it.
func (h *RefreshUsersHandler) Reload(ctx context.Context) (*domain.Snapshot, error) {
	h.group.Forget(refreshKey)
	return h.Handle(ctx, RefreshUsersQuery{})
}

// Handle fetches the collection. A failed fetch is not fatal: the stored
// snapshot becomes empty with its error set, and the error is returned too.
func (h *RefreshUsersHandler) Handle(ctx context.Context, _ RefreshUsersQuery) (*domain.Snapshot, error) {
	v, _, _ := h.group.Do(refreshKey, func() (any, error) {
		return h.fetch(ctx), nil
	})

	snap := v.(*domain.Snapshot)
	return snap, snap.Err()
}

func (h *RefreshUsersHandler) fetch(ctx context.Context) *domain.Snapshot {
	var snap *domain.Snapshot

	gen := h.started.Add(1)
	users, err := h.gateway.List(ctx)
	if err != nil {
		h.logger.Error("failed to fetch users", slog.Any("error", err))
		snap = domain.FailedSnapshot(err, h.now())
	} else {
		snap = domain.NewSnapshot(users, h.now())
		h.logger.Debug("users refreshed", slog.Int("count", snap.Len()))
	}

	h.mu.Lock()
	if gen < h.stored {
		latest := h.current.Load()
		h.mu.Unlock()
		h.logger.Debug("discarding stale fetch", slog.Uint64("generation", gen))
		return latest
	}
	h.stored = gen
	h.current.Store(snap)
	h.mu.Unlock()

	if h.publisher != nil {
		event := contracts.SnapshotRefreshedEvent{
			BaseEvent: events.NewBaseEvent(contracts.SnapshotRefreshedEventType, "users"),
			Count:     snap.Len(),
		}
		if err != nil {
			event.Error = err.Error()
		}
		if perr := h.publisher.Publish(ctx, event); perr != nil {
			h.logger.Warn("failed to publish refresh event", slog.Any("error", perr))
		}
	}

	return snap
}
