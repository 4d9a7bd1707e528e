package eventbus_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rai/userdirectory/internal/platform/eventbus"
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
)

func TestInMemoryEventBus_DeliversToSubscribers(t *testing.T) {
	bus := eventbus.New(nil)

	var mu sync.Mutex
	var got []string
	record := func(name string) events.HandlerFunc {
		return func(ctx context.Context, event events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, name+":"+event.AggregateID())
			return nil
		}
	}

	require.NoError(t, bus.Subscribe(contracts.UserCreatedEventType, record("a")))
	require.NoError(t, bus.Subscribe(contracts.UserCreatedEventType, record("b")))
	require.NoError(t, bus.Subscribe(contracts.UserDeletedEventType, record("deleted")))

	event := contracts.UserChangedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserCreatedEventType, "7"),
		UserID:    "7",
	}
	require.NoError(t, bus.Publish(context.Background(), event))

	assert.ElementsMatch(t, []string{"a:7", "b:7"}, got)
}

func TestInMemoryEventBus_HandlerErrorIsNotReturned(t *testing.T) {
	bus := eventbus.New(nil)

	called := false
	require.NoError(t, bus.Subscribe(contracts.UserDeletedEventType, events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("handler failed")
	})))
	require.NoError(t, bus.Subscribe(contracts.UserDeletedEventType, events.HandlerFunc(func(context.Context, events.Event) error {
		called = true
		return nil
	})))

	err := bus.Publish(context.Background(), contracts.UserDeletedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserDeletedEventType, "1"),
	})

	assert.NoError(t, err)
	assert.True(t, called)
}

func TestInMemoryEventBus_NoSubscribers(t *testing.T) {
	bus := eventbus.New(nil)

	err := bus.Publish(context.Background(), contracts.FilterChangedEvent{
		BaseEvent: events.NewBaseEvent(contracts.FilterChangedEventType, "directory"),
	})

	assert.NoError(t, err)
}

func TestInMemoryEventBus_RejectsNilHandler(t *testing.T) {
	bus := eventbus.New(nil)

	err := bus.Subscribe(contracts.UserCreatedEventType, nil)

	assert.ErrorIs(t, err, eventbus.ErrNilHandler)
	assert.NoError(t, bus.Publish(context.Background(), contracts.UserChangedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserCreatedEventType, "1"),
	}))
}

func TestInMemoryEventBus_LogsHandlerFailuresOnce(t *testing.T) {
	var buf bytes.Buffer
	bus := eventbus.New(slog.New(slog.NewJSONHandler(&buf, nil)))

	failing := events.HandlerFunc(func(context.Context, events.Event) error {
		return errors.New("audit store down")
	})
	require.NoError(t, bus.Subscribe(contracts.UserDeletedEventType, failing))
	require.NoError(t, bus.Subscribe(contracts.UserDeletedEventType, failing))

	err := bus.Publish(context.Background(), contracts.UserDeletedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserDeletedEventType, "1"),
	})
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(buf.String(), "event handler failed"))
	assert.Contains(t, buf.String(), `"failed_handlers":2`)
	assert.Contains(t, buf.String(), "audit store down")
}
