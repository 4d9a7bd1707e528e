package commands_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users/application/commands"
	"github.com/rai/userdirectory/modules/users/domain"
)

// --- Mocks ---

type mockUserRepository struct {
	findByIDFn func(ctx context.Context, id types.UserID) (*domain.User, error)
	saveFn     func(ctx context.Context, user *domain.User) error
	findAllFn  func(ctx context.Context) ([]*domain.User, error)
}

func (m *mockUserRepository) FindByID(ctx context.Context, id types.UserID) (*domain.User, error) {
	return m.findByIDFn(ctx, id)
}

func (m *mockUserRepository) Save(ctx context.Context, user *domain.User) error {
	return m.saveFn(ctx, user)
}

func (m *mockUserRepository) FindAll(ctx context.Context) ([]*domain.User, error) {
	if m.findAllFn == nil {
		return nil, nil
	}
	return m.findAllFn(ctx)
}

type mockTransactionScope struct {
	executeFn func(ctx context.Context, fn func(ctx context.Context) error) error
}

func (m *mockTransactionScope) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.executeFn(ctx, fn)
}

func passthroughScope() *mockTransactionScope {
	return &mockTransactionScope{
		executeFn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			return fn(ctx)
		},
	}
}

type mockPublisher struct {
	publishFn func(ctx context.Context, event events.Event) error
}

func (m *mockPublisher) Publish(ctx context.Context, event events.Event) error {
	return m.publishFn(ctx, event)
}

func recordingPublisher(published *[]events.Event) *mockPublisher {
	return &mockPublisher{
		publishFn: func(ctx context.Context, event events.Event) error {
			*published = append(*published, event)
			return nil
		},
	}
}

func failingPublisher(t *testing.T) *mockPublisher {
	return &mockPublisher{
		publishFn: func(ctx context.Context, event events.Event) error {
			t.Fatal("Publish should not be called")
			return nil
		},
	}
}

func createTestUser(t *testing.T, id types.UserID) *domain.User {
	t.Helper()
	profile, err := domain.NewProfile(types.UserRecord{
		Name:  "Алексеев Алексей",
		Email: "alexey@example.com",
		Phone: "+7-555-123-4567",
	})
	require.NoError(t, err)
	return domain.Reconstitute(id, profile, time.Now(), time.Now())
}

// --- Tests ---

func TestDeleteUserHandler_Handle_Success(t *testing.T) {
	userID := types.NumericUserID(1)
	user := createTestUser(t, userID)

	var savedUser *domain.User
	var publishedEvents []events.Event

	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id types.UserID) (*domain.User, error) {
			assert.Equal(t, userID, id)
			return user, nil
		},
		saveFn: func(ctx context.Context, u *domain.User) error {
			savedUser = u
			return nil
		},
	}

	handler := commands.NewDeleteUserHandler(repo, passthroughScope(), recordingPublisher(&publishedEvents), nil)

	err := handler.Handle(context.Background(), commands.DeleteUserCommand{UserID: userID})
	require.NoError(t, err)

	require.NotNil(t, savedUser)
	assert.True(t, savedUser.IsDeleted())

	require.Len(t, publishedEvents, 1)
	deletedEvent, ok := publishedEvents[0].(contracts.UserDeletedEvent)
	require.True(t, ok, "expected UserDeletedEvent, got %T", publishedEvents[0])
	assert.Equal(t, "1", deletedEvent.UserID)
}

func TestDeleteUserHandler_Handle_ZeroID(t *testing.T) {
	handler := commands.NewDeleteUserHandler(nil, nil, nil, nil)

	err := handler.Handle(context.Background(), commands.DeleteUserCommand{})

	assert.ErrorIs(t, err, types.ErrInvalidID)
}

func TestDeleteUserHandler_Handle_UserNotFound(t *testing.T) {
	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id types.UserID) (*domain.User, error) {
			return nil, domain.ErrUserNotFound
		},
		saveFn: func(ctx context.Context, u *domain.User) error {
			t.Fatal("Save should not be called when user is not found")
			return nil
		},
	}

	handler := commands.NewDeleteUserHandler(repo, passthroughScope(), failingPublisher(t), nil)

	err := handler.Handle(context.Background(), commands.DeleteUserCommand{UserID: types.NumericUserID(9)})

	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestDeleteUserHandler_Handle_SaveError(t *testing.T) {
	userID := types.NumericUserID(1)
	errSave := errors.New("save failed")

	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id types.UserID) (*domain.User, error) {
			return createTestUser(t, userID), nil
		},
		saveFn: func(ctx context.Context, u *domain.User) error {
			return errSave
		},
	}

	handler := commands.NewDeleteUserHandler(repo, passthroughScope(), failingPublisher(t), nil)

	err := handler.Handle(context.Background(), commands.DeleteUserCommand{UserID: userID})

	assert.ErrorIs(t, err, errSave)
}

func TestDeleteUserHandler_Handle_TransactionError(t *testing.T) {
	userID := types.NumericUserID(1)
	errTx := errors.New("commit failed")

	repo := &mockUserRepository{
		findByIDFn: func(ctx context.Context, id types.UserID) (*domain.User, error) {
			return createTestUser(t, userID), nil
		},
		saveFn: func(ctx context.Context, u *domain.User) error {
			return nil
		},
	}
	txScope := &mockTransactionScope{
		executeFn: func(ctx context.Context, fn func(ctx context.Context) error) error {
			_ = fn(ctx)
			return errTx
		},
	}

	handler := commands.NewDeleteUserHandler(repo, txScope, failingPublisher(t), nil)

	err := handler.Handle(context.Background(), commands.DeleteUserCommand{UserID: userID})

	assert.ErrorIs(t, err, errTx, "events are published only after commit")
}
