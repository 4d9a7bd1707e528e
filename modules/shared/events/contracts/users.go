// Package contracts defines public event contracts for inter-module communication.
// Modules should import event types from here, NOT from other module's domain packages.
package contracts

import "github.com/rai/userdirectory/modules/shared/events"

// User module event types.
// These are the "public API" of the users backend for event-driven communication.
const (
	UserCreatedEventType events.EventType = "users.UserCreated"
	UserUpdatedEventType events.EventType = "users.UserUpdated"
	UserDeletedEventType events.EventType = "users.UserDeleted"
)

// UserChangedEvent is the public contract for user creation and update events.
type UserChangedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// UserDeletedEvent is the public contract for user deletion events.
type UserDeletedEvent struct {
	events.BaseEvent
	UserID string `json:"user_id"`
}
