package directory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/modules/directory"
	"github.com/rai/userdirectory/modules/directory/domain"
	"github.com/rai/userdirectory/modules/directory/infrastructure/rest"
	"github.com/rai/userdirectory/modules/directory/view"
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
	"github.com/rai/userdirectory/modules/shared/types"
	"github.com/rai/userdirectory/modules/users"
	"github.com/rai/userdirectory/modules/users/infrastructure/persistence"
)

type collectingPublisher struct {
	mu   sync.Mutex
	evts []events.Event
}

func (p *collectingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.evts = append(p.evts, event)
	return nil
}

func (p *collectingPublisher) ofType(t events.EventType) []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []events.Event
	for _, e := range p.evts {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func newDirectory(t *testing.T) (directory.Module, *httptest.Server, *collectingPublisher) {
	t.Helper()
	repo := persistence.NewInMemoryRepository()
	backend, err := users.New(users.Config{Repository: repo, TxScope: repo})
	require.NoError(t, err)

	mux := http.NewServeMux()
	backend.RegisterRoutes(mux)
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	client, err := rest.NewClient(rest.Config{BaseURL: srv.URL})
	require.NoError(t, err)

	publisher := &collectingPublisher{}
	dir, err := directory.New(directory.Config{Gateway: client, EventPublisher: publisher})
	require.NoError(t, err)
	return dir, srv, publisher
}

func user(name, email, company string) types.UserRecord {
	u := types.UserRecord{Name: name, Email: email, Phone: "+7-555-123-4567"}
	if company != "" {
		u.Company = types.NewCompany(company)
	}
	return u
}

func TestNew_RequiresGateway(t *testing.T) {
	_, err := directory.New(directory.Config{})
	assert.Error(t, err)
}

func TestModule_ListFetchesOnFirstUse(t *testing.T) {
	dir, _, publisher := newDirectory(t)

	assert.True(t, dir.Snapshot().FetchedAt().IsZero())

	list, err := dir.List(context.Background(), dir.NewState())
	require.NoError(t, err)

	assert.Empty(t, list.Page.Items)
	assert.Empty(t, list.FetchError)
	assert.False(t, dir.Snapshot().FetchedAt().IsZero())
	assert.Len(t, publisher.ofType(contracts.SnapshotRefreshedEventType), 1)

	_, err = dir.List(context.Background(), dir.NewState())
	require.NoError(t, err)
	assert.Len(t, publisher.ofType(contracts.SnapshotRefreshedEventType), 1, "second list renders the cached snapshot")
}

func TestModule_WritesRefetchCollection(t *testing.T) {
	dir, _, _ := newDirectory(t)
	ctx := context.Background()

	created, err := dir.CreateUser(ctx, user("Борисов Борис", "b@example.com", "Design Studio"))
	require.NoError(t, err)
	require.True(t, created.HasID())
	_, err = dir.CreateUser(ctx, user("Алексеев Алексей", "a@example.com", "Tech Corp"))
	require.NoError(t, err)
	assert.Equal(t, 2, dir.Snapshot().Len())

	state := dir.NewState()
	state.SetSort(view.SortAscending)
	list, err := dir.List(ctx, state)
	require.NoError(t, err)
	require.Len(t, list.Page.Items, 2)
	assert.Equal(t, "Алексеев Алексей", list.Page.Items[0].Name)

	updated := created
	updated.Company = nil
	require.NoError(t, dir.UpdateUser(ctx, updated))
	got, ok := dir.Snapshot().Find(*created.ID)
	require.True(t, ok)
	_, hasCompany := got.CompanyName()
	assert.False(t, hasCompany)

	require.NoError(t, dir.DeleteUser(ctx, *created.ID))
	_, ok = dir.Snapshot().Find(*created.ID)
	assert.False(t, ok)
	assert.Equal(t, 1, dir.Snapshot().Len())
}

func TestModule_InvalidWriteNeverReachesBackend(t *testing.T) {
	dir, _, publisher := newDirectory(t)

	_, err := dir.CreateUser(context.Background(), user("", "bad", ""))

	var verr *types.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.NotEmpty(t, verr.Field(types.FieldName))
	assert.Empty(t, publisher.ofType(contracts.SnapshotRefreshedEventType))
}

func TestModule_FilterChangePublishesEvent(t *testing.T) {
	dir, _, publisher := newDirectory(t)
	state := dir.NewState()

	require.True(t, state.SetCompany("Tech Corp"))
	assert.False(t, state.SetCompany("Tech Corp"))

	evts := publisher.ofType(contracts.FilterChangedEventType)
	require.Len(t, evts, 1)
	changed := evts[0].(contracts.FilterChangedEvent)
	assert.Equal(t, "Tech Corp", changed.Company)
}

func TestModule_FetchFailureIsReported(t *testing.T) {
	dir, srv, publisher := newDirectory(t)
	srv.Close()

	list, err := dir.List(context.Background(), dir.NewState())
	require.NoError(t, err)
	assert.Empty(t, list.Page.Items)
	assert.NotEmpty(t, list.FetchError)

	_, err = dir.Refresh(context.Background())
	assert.ErrorIs(t, err, domain.ErrFetchFailed)

	refreshed := publisher.ofType(contracts.SnapshotRefreshedEventType)
	require.NotEmpty(t, refreshed)
	assert.NotEmpty(t, refreshed[0].(contracts.SnapshotRefreshedEvent).Error)
}
