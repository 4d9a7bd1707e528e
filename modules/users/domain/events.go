package domain

import (
	"github.com/rai/userdirectory/modules/shared/events"
	"github.com/rai/userdirectory/modules/shared/events/contracts"
	"github.com/rai/userdirectory/modules/shared/types"
)

// Domain events are the public contracts, so other modules never import
// this package.

func NewUserCreatedEvent(user *User) contracts.UserChangedEvent {
	return newUserChangedEvent(contracts.UserCreatedEventType, user)
}

func NewUserUpdatedEvent(user *User) contracts.UserChangedEvent {
	return newUserChangedEvent(contracts.UserUpdatedEventType, user)
}

func newUserChangedEvent(eventType events.EventType, user *User) contracts.UserChangedEvent {
	return contracts.UserChangedEvent{
		BaseEvent: events.NewBaseEvent(eventType, user.ID().String()),
		UserID:    user.ID().String(),
		Name:      user.Profile().Name(),
		Email:     user.Profile().Email(),
	}
}

func NewUserDeletedEvent(userID types.UserID) contracts.UserDeletedEvent {
	return contracts.UserDeletedEvent{
		BaseEvent: events.NewBaseEvent(contracts.UserDeletedEventType, userID.String()),
		UserID:    userID.String(),
	}
}
