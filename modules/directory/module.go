// Package directory is the client side of the user directory: it keeps a
// snapshot of the user collection fetched from the REST backend and renders
// filtered, sorted and paginated views of it.
package directory

import (
	"context"
	"errors"
	"log/slog"

	"github.com/rai/userdirectory/modules/directory/application/commands"
	"github.com/rai/userdirectory/modules/directory/application/queries"
	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/directory/view"
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
	"github.com/rai/userdirectory/modules/shared/types"
)

// Module is the public API of the directory.
type Module interface {
	// NewState returns a fresh caller-owned list state. Filter changes made
	// on it are published as FilterChanged events.
	NewState() *view.State
	// Refresh refetches the whole collection.
	Refresh(ctx context.Context) (*domain.Snapshot, error)
	// Snapshot returns the current snapshot without fetching.
	Snapshot() *domain.Snapshot
	// List renders the current snapshot for the given state. The collection
	// is fetched on first use.
	List(ctx context.Context, state *view.State) (*queries.UserListDTO, error)

	CreateUser(ctx context.Context, user types.UserRecord) (types.UserRecord, error)
	UpdateUser(ctx context.Context, user types.UserRecord) error
	DeleteUser(ctx context.Context, id types.UserID) error
}

// Config holds the module configuration.
type Config struct {
	Gateway        domain.UserGateway
	EventPublisher events.Publisher
	Logger         *slog.Logger
	// PageSize for new states; view.DefaultPageSize when zero.
	PageSize int
}

type module struct {
	pageSize  int
	publisher events.Publisher
	logger    *slog.Logger

	refreshHandler    *queries.RefreshUsersHandler
	listUsersHandler  *queries.ListUsersHandler
	createUserHandler *commands.CreateUserHandler
	updateUserHandler *commands.UpdateUserHandler
	deleteUserHandler *commands.DeleteUserHandler
}

// New creates a new directory module with all dependencies wired.
func New(cfg Config) (Module, error) {
	if cfg.Gateway == nil {
		return nil, errors.New("directory: gateway is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "directory")

	refreshHandler := queries.NewRefreshUsersHandler(cfg.Gateway, cfg.EventPublisher, logger)

	return &module{
		pageSize:          cfg.PageSize,
		publisher:         cfg.EventPublisher,
		logger:            logger,
		refreshHandler:    refreshHandler,
		listUsersHandler:  queries.NewListUsersHandler(refreshHandler),
		createUserHandler: commands.NewCreateUserHandler(cfg.Gateway, refreshHandler, logger),
		updateUserHandler: commands.NewUpdateUserHandler(cfg.Gateway, refreshHandler, logger),
		deleteUserHandler: commands.NewDeleteUserHandler(cfg.Gateway, refreshHandler, logger),
	}, nil
}

func (m *module) NewState() *view.State {
	state := view.NewState(m.pageSize)
	if m.publisher != nil {
		state.OnFilterChange(m.publishFilterChange)
	}
	return state
}

func (m *module) publishFilterChange(c view.Criteria) {
	event := contracts.FilterChangedEvent{
		BaseEvent: events.NewBaseEvent(contracts.FilterChangedEventType, "directory"),
		Search:    c.Search,
		Company:   c.Company,
		Letter:    c.Letter,
	}
	if err := m.publisher.Publish(context.Background(), event); err != nil {
		m.logger.Warn("failed to publish filter change", slog.Any("error", err))
	}
}

func (m *module) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	return m.refreshHandler.Refresh(ctx)
}

func (m *module) Snapshot() *domain.Snapshot {
	return m.refreshHandler.Current()
}

func (m *module) List(ctx context.Context, state *view.State) (*queries.UserListDTO, error) {
	if m.Snapshot().FetchedAt().IsZero() {
		// A fetch error is reported through the DTO, not returned.
		_, _ = m.Refresh(ctx)
	}
	return m.listUsersHandler.Handle(ctx, queries.ListUsersQuery{Query: state.Query()})
}

func (m *module) CreateUser(ctx context.Context, user types.UserRecord) (types.UserRecord, error) {
	return m.createUserHandler.Handle(ctx, commands.CreateUserCommand{User: user})
}

func (m *module) UpdateUser(ctx context.Context, user types.UserRecord) error {
	return m.updateUserHandler.Handle(ctx, commands.UpdateUserCommand{User: user})
}

func (m *module) DeleteUser(ctx context.Context, id types.UserID) error {
	return m.deleteUserHandler.Handle(ctx, commands.DeleteUserCommand{UserID: id})
}
