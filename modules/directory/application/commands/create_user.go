// Package commands contains write use cases for the directory module.
// Every successful write is followed by a full refetch of the collection;
// a failed write leaves the current snapshot untouched.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/shared/types"
)

// Refresher refetches the collection after a write. Reload must start a
// fresh fetch rather than join one that began before the write.
type Refresher interface {
	Reload(ctx context.Context) (*domain.Snapshot, error)
}

// CreateUserCommand represents the intent to create a new user.
type CreateUserCommand struct {
	User types.UserRecord
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	gateway   domain.UserGateway
	refresher Refresher
	logger    *slog.Logger
}

func NewCreateUserHandler(gateway domain.UserGateway, refresher Refresher, logger *slog.Logger) *CreateUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CreateUserHandler{
		gateway:   gateway,
		refresher: refresher,
		logger:    logger,
	}
}

// Handle validates and submits the record. Any ID on the input is ignored;
// the returned record carries the one assigned by the backend.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (types.UserRecord, error) {
	user := cmd.User.WithoutID()
	if err := types.ValidateUser(user); err != nil {
		return types.UserRecord{}, err
	}

	created, err := h.gateway.Create(ctx, user)
	if err != nil {
		h.logger.Error("failed to create user", slog.Any("error", err))
		return types.UserRecord{}, fmt.Errorf("creating user: %w", err)
	}

	h.logger.Info("user created", slog.String("user_id", created.ID.String()))
	refreshAfterWrite(ctx, h.refresher, h.logger)
	return created, nil
}

// refreshAfterWrite refetches the collection. The write already succeeded,
// so a failed refetch is only logged; the snapshot records the error.
func refreshAfterWrite(ctx context.Context, r Refresher, logger *slog.Logger) {
	if r == nil {
		return
	}
	if _, err := r.Reload(ctx); err != nil {
		logger.Warn("refresh after write failed", slog.Any("error", err))
	}
}
