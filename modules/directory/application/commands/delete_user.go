package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/shared/types"
)

// DeleteUserCommand represents the intent to delete a user.
type DeleteUserCommand struct {
	UserID types.UserID
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	gateway   domain.UserGateway
	refresher Refresher
	logger    *slog.Logger
}

func NewDeleteUserHandler(gateway domain.UserGateway, refresher Refresher, logger *slog.Logger) *DeleteUserHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &DeleteUserHandler{
		gateway:   gateway,
		refresher: refresher,
		logger:    logger,
	}
}

// Handle executes the delete user use case.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.UserID.IsZero() {
		return domain.ErrIDRequired
	}

	if err := h.gateway.Delete(ctx, cmd.UserID); err != nil {
		h.logger.Error("failed to delete user",
			slog.String("user_id", cmd.UserID.String()),
			slog.Any("error", err),
		)
		return fmt.Errorf("deleting user: %w", err)
	}

	h.logger.Info("user deleted", slog.String("user_id", cmd.UserID.String()))
	refreshAfterWrite(ctx, h.refresher, h.logger)
	return nil
}
