package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// DeleteUserCommand represents the intent to delete a user.
type DeleteUserCommand struct {
	UserID types.UserID
}

// DeleteUserHandler handles the DeleteUserCommand.
type DeleteUserHandler struct {
	repo      domain.UserRepository
	txScope   transaction.Scope
	publisher events.Publisher
	logger    *slog.Logger
}

func NewDeleteUserHandler(repo domain.UserRepository, txScope transaction.Scope, publisher events.Publisher, logger *slog.Logger) *DeleteUserHandler {
	return &DeleteUserHandler{
		repo:      repo,
		txScope:   txScope,
		publisher: publisher,
		logger:    orDefault(logger),
	}
}

// Handle executes the delete user use case.
func (h *DeleteUserHandler) Handle(ctx context.Context, cmd DeleteUserCommand) error {
	if cmd.UserID.IsZero() {
		return types.ErrInvalidID
	}

	var user *domain.User
	err := h.txScope.Execute(ctx, func(ctx context.Context) error {
		var err error
		user, err = h.repo.FindByID(ctx, cmd.UserID)
		if err != nil {
			return fmt.Errorf("finding user: %w", err)
		}

		if err := user.Delete(); err != nil {
			return fmt.Errorf("deleting user: %w", err)
		}

		if err := h.repo.Save(ctx, user); err != nil {
			return fmt.Errorf("saving user: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	publishAll(ctx, h.publisher, h.logger, user.PullDomainEvents())
	return nil
}
