// Package eventhandlers contains the audit module's event subscribers.
package eventhandlers

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
)

// UserChangeHandler writes an audit record for every change to the user
// collection. It runs after the change is committed.
type UserChangeHandler struct {
	logger *slog.Logger
}

func NewUserChangeHandler(logger *slog.Logger) *UserChangeHandler {
	return &UserChangeHandler{logger: logger}
}

// Handle implements events.Handler.
func (h *UserChangeHandler) Handle(ctx context.Context, event events.Event) error {
	attrs := []any{
		slog.String("event_type", event.EventType().String()),
		slog.String("event_id", event.EventID()),
		slog.String("user_id", event.AggregateID()),
		slog.Time("occurred_at", event.OccurredAt()),
	}

	switch e := event.(type) {
	case contracts.UserChangedEvent:
		attrs = append(attrs, slog.String("name", e.Name), slog.String("email", e.Email))
	case contracts.UserDeletedEvent:
	default:
		return fmt.Errorf("audit: unexpected event %T", event)
	}

	h.logger.InfoContext(ctx, "user changed", attrs...)
	return nil
}

// DirectoryActivityHandler records what operators of the directory console
// look at and whether their fetches succeed.
type DirectoryActivityHandler struct {
	logger *slog.Logger
}

func NewDirectoryActivityHandler(logger *slog.Logger) *DirectoryActivityHandler {
	return &DirectoryActivityHandler{logger: logger}
}

// Handle implements events.Handler.
func (h *DirectoryActivityHandler) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case contracts.FilterChangedEvent:
		h.logger.DebugContext(ctx, "filter changed",
			slog.String("search", e.Search),
			slog.String("company", e.Company),
			slog.String("letter", e.Letter),
		)
	case contracts.SnapshotRefreshedEvent:
		if e.Error != "" {
			h.logger.WarnContext(ctx, "directory refresh failed", slog.String("error", e.Error))
			return nil
		}
		h.logger.DebugContext(ctx, "directory refreshed", slog.Int("count", e.Count))
	default:
		return fmt.Errorf("audit: unexpected event %T", event)
	}
	return nil
}
