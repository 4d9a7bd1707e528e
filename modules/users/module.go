// Package users is the REST backend that owns the user collection.
// This file defines the module's public API - the single interface
// that other modules use to interact with the users bounded context.
package users

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/transaction"
	"github.com/rai/userdirectory/modules/users/application/commands"
	"github.com/rai/userdirectory/modules/users/application/queries"
	"github.com/rai/userdirectory/modules/users/domain"
	httphandler "github.com/rai/userdirectory/modules/users/infrastructure/http"
)

// Module is the public API for the users bounded context.
// External communication: HTTP API (RegisterRoutes)
// Cross-module communication: Domain Events (published after commit)
type Module interface {
	// RegisterRoutes registers the module's HTTP routes to the given mux.
	RegisterRoutes(mux *http.ServeMux)
}

// Config holds the module configuration.
type Config struct {
	Repository domain.UserRepository
	// TxScope wraps every write use case. Required.
	TxScope transaction.Scope
	// ReadScope wraps list queries; transaction.NoScope when nil.
	ReadScope transaction.Scope
	// IDStrategy is domain.IDStrategySequence (default) or domain.IDStrategyUUID.
	IDStrategy     string
	EventPublisher events.Publisher
	Logger         *slog.Logger
}

type module struct {
	handler *httphandler.Handler
}

// New creates a new users module with all dependencies wired.
func New(cfg Config) (Module, error) {
	if cfg.Repository == nil || cfg.TxScope == nil {
		return nil, errors.New("users: repository and transaction scope are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "users")

	ids, err := domain.NewIDGenerator(cfg.IDStrategy, cfg.Repository)
	if err != nil {
		return nil, err
	}

	// Wire up command handlers
	createUserHandler := commands.NewCreateUserHandler(cfg.Repository, ids, cfg.TxScope, cfg.EventPublisher, logger)
	updateUserHandler := commands.NewUpdateUserHandler(cfg.Repository, cfg.TxScope, cfg.EventPublisher, logger)
	deleteUserHandler := commands.NewDeleteUserHandler(cfg.Repository, cfg.TxScope, cfg.EventPublisher, logger)

	// Wire up query handlers
	getUserHandler := queries.NewGetUserHandler(cfg.Repository)
	listUsersHandler := queries.NewListUsersHandler(cfg.Repository, cfg.ReadScope)

	return &module{
		handler: httphandler.NewHandler(createUserHandler, updateUserHandler, deleteUserHandler, getUserHandler, listUsersHandler, logger),
	}, nil
}

func (m *module) RegisterRoutes(mux *http.ServeMux) {
	m.handler.RegisterRoutes(mux)
}
