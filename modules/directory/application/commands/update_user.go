package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/shared/types"
)

// UpdateUserCommand replaces the record identified by User.ID.
type UpdateUserCommand struct {
	User types.UserRecord
}

// UpdateUserHandler handles the UpdateUserCommand.
type UpdateUserHandler struct {
	gateway   domain.UserGateway
	refresher Refresher
	logger    *slog.Logger
}

func NewUpdateUserHandler(gateway domain.UserGateway, refresher Refresher, logger *slog.Logger) *UpdateUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &UpdateUserHandler{
		gateway:   gateway,
		refresher: refresher,
		logger:    logger,
	}
}

// Handle executes the update user use case.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) error {
	if !cmd.User.HasID() {
		return domain.ErrIDRequired
	}
	if err := types.ValidateUser(cmd.User); err != nil {
		return err
	}

	if err := h.gateway.Update(ctx, cmd.User); err != nil {
		h.logger.Error("failed to update user",
			slog.String("user_id", cmd.User.ID.String()),
			slog.Any("error", err),
		)
		return fmt.Errorf("updating user: %w", err)
	}

	h.logger.Info("user updated", slog.String("user_id", cmd.User.ID.String()))
	refreshAfterWrite(ctx, h.refresher, h.logger)
	return nil
}
