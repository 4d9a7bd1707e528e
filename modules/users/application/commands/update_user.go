package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/domain"
)

// UpdateUserCommand replaces the profile of the user identified by UserID.
// The ID inside User, if any, is ignored.
type UpdateUserCommand struct {
	UserID types.UserID
	User   types.UserRecord
}

// UpdateUserHandler handles the UpdateUserCommand.
type UpdateUserHandler struct {
	repo      domain.UserRepository
	txScope   transaction.Scope
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewUpdateUserHandler(repo domain.UserRepository, txScope transaction.Scope, publisher events.Publisher, logger *slog.Logger) *UpdateUserHandler {
	return &UpdateUserHandler{
		repo:      repo,
		txScope:   txScope,
		publisher: publisher,
		logger:    orDefault(logger),
		now:       time.Now,
	}
}

// Handle executes the update user use case and returns the stored record.
func (h *UpdateUserHandler) Handle(ctx context.Context, cmd UpdateUserCommand) (types.UserRecord, error) {
	if cmd.UserID.IsZero() {
		return types.UserRecord{}, types.ErrInvalidID
	}

	profile, err := domain.NewProfile(cmd.User)
	if err != nil {
		return types.UserRecord{}, err
	}

	user, err := transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (*domain.User, error) {
		user, err := h.repo.FindByID(ctx, cmd.UserID)
		if err != nil {
			return nil, fmt.Errorf("finding user: %w", err)
		}

		if err := user.UpdateProfile(profile, h.now()); err != nil {
			return nil, fmt.Errorf("updating profile: %w", err)
		}

		if err := h.repo.Save(ctx, user); err != nil {
			return nil, fmt.Errorf("saving user: %w", err)
		}
		return user, nil
	})
	if err != nil {
		return types.UserRecord{}, err
	}

	publishAll(ctx, h.publisher, h.logger, user.PullDomainEvents())
	return user.Record(), nil
}
