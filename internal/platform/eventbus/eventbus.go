// Package eventbus provides an in-memory event bus for inter-module communication.
package eventbus

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/rai/userdirectory/modules/shared/events"
)

// ErrNilHandler is returned when subscribing a nil handler.
var ErrNilHandler = errors.New("eventbus: nil handler")

// InMemoryEventBus delivers each event to its handlers concurrently and
// returns once all of them have finished. Handler errors are logged once per
// event, with the first error and the number of failed handlers; they are
// never returned, so publishers are not affected by a failing subscriber.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[events.EventType][]events.Handler
	logger   *slog.Logger
}

func New(logger *slog.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InMemoryEventBus{
		handlers: make(map[events.EventType][]events.Handler),
		logger:   logger,
	}
}

// Subscribe implements events.Subscriber.
// Modules subscribe once per event type while they are being wired.
func (b *InMemoryEventBus) Subscribe(eventType events.EventType, handler events.Handler) error {
	if handler == nil {
		return ErrNilHandler
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)
	b.logger.Debug("subscribed to event", slog.String("event_type", eventType.String()))
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType events.EventType) []events.Handler {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return slices.Clone(b.handlers[eventType])
}

// Publish implements events.Publisher.
func (b *InMemoryEventBus) Publish(ctx context.Context, event events.Event) error {
	handlers := b.handlersFor(event.EventType())

	b.logger.Debug("publishing event",
		slog.String("event_type", event.EventType().String()),
		slog.String("event_id", event.EventID()),
		slog.Int("handler_count", len(handlers)),
	)

	var (
		g      errgroup.Group
		failed atomic.Int32
	)
	for _, handler := range handlers {
		g.Go(func() error {
			if err := handler.Handle(ctx, event); err != nil {
				failed.Add(1)
				return fmt.Errorf("%T: %w", handler, err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		b.logger.Error("event handler failed",
			slog.String("event_type", event.EventType().String()),
			slog.String("event_id", event.EventID()),
			slog.Int("failed_handlers", int(failed.Load())),
			slog.Any("error", err),
		)
	}
	return nil
}

// Compile-time interface checks.
var (
	_ events.Publisher  = (*InMemoryEventBus)(nil)
	_ events.Subscriber = (*InMemoryEventBus)(nil)
)
