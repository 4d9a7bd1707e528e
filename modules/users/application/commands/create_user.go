// Package commands contains write use cases for the users module.
// Commands change state and typically don't return data (except IDs).
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

// CreateUserCommand represents the intent to create a new user.
// Any ID on the record is ignored.
type CreateUserCommand struct {
	User types.UserRecord
}

// CreateUserHandler handles the CreateUserCommand.
type CreateUserHandler struct {
	repo      domain.UserRepository
	ids       domain.IDGenerator
	txScope   transaction.Scope
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewCreateUserHandler(repo domain.UserRepository, ids domain.IDGenerator, txScope transaction.Scope, publisher events.Publisher, logger *slog.Logger) *CreateUserHandler {
	return &CreateUserHandler{
		repo:      repo,
		ids:       ids,
		txScope:   txScope,
		publisher: publisher,
		logger:    orDefault(logger),
		now:       time.Now,
	}
}

// Handle executes the create user use case and returns the stored record.
func (h *CreateUserHandler) Handle(ctx context.Context, cmd CreateUserCommand) (types.UserRecord, error) {
	profile, err := domain.NewProfile(cmd.User)
	if err != nil {
		return types.UserRecord{}, err
	}

	user, err := transaction.ExecuteWithResult(ctx, h.txScope, func(ctx context.Context) (*domain.User, error) {
		id, err := h.ids.NextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("assigning id: %w", err)
		}

		user := domain.NewUser(id, profile, h.now())
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

// publishAll publishes events raised by a committed aggregate.
// Failures are logged but don't fail the use case.
func publishAll(ctx context.Context, publisher events.Publisher, logger *slog.Logger, evts []events.Event) {
	if publisher == nil {
		return
	}
	for _, event := range evts {
		if err := publisher.Publish(ctx, event); err != nil {
			logger.Warn("failed to publish event",
				slog.String("event_type", event.EventType().String()),
				slog.String("event_id", event.EventID()),
				slog.Any("error", err),
			)
		}
	}
}

func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
