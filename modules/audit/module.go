// Package audit logs user changes and directory activity. It only
// subscribes to events; it has no API of its own.
package audit

import (
	"errors"
	"log/slog"

	"github.com/rai/userdirectory/modules/audit/application/eventhandlers"
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
)

// Module represents the audit module entry point.
type Module struct{}

type Config struct {
	EventSubscriber events.Subscriber
	Logger          *slog.Logger
}

// New initializes the audit module and subscribes to events.
func New(cfg Config) (*Module, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("module", "audit")

	userChanges := eventhandlers.NewUserChangeHandler(logger)
	directoryActivity := eventhandlers.NewDirectoryActivityHandler(logger)

	subscriptions := []struct {
		eventType events.EventType
		handler   events.Handler
	}{
		{contracts.UserCreatedEventType, userChanges},
		{contracts.UserUpdatedEventType, userChanges},
		{contracts.UserDeletedEventType, userChanges},
		{contracts.FilterChangedEventType, directoryActivity},
		{contracts.SnapshotRefreshedEventType, directoryActivity},
	}

	var errs []error
	for _, s := range subscriptions {
		if err := cfg.EventSubscriber.Subscribe(s.eventType, s.handler); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	return &Module{}, nil
}
