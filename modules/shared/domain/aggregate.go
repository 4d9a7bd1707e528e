// Package domain provides shared domain primitives.
package domain

import "github.com/rai/userdirectory/modules/shared/events"

// AggregateRoot collects the domain events raised by business methods.
// Embed it in aggregate structs:
//
//	type User struct {
//	    domain.AggregateRoot
//	    id types.UserID
//	}
//
// Events are published by the application layer once the aggregate has
// been persisted.
type AggregateRoot struct {
	domainEvents []events.Event
}

// AddDomainEvent records an event raised by a business method.
func (a *AggregateRoot) AddDomainEvent(event events.Event) {
	a.domainEvents = append(a.domainEvents, event)
}

// DomainEvents returns the recorded events without clearing them.
func (a *AggregateRoot) DomainEvents() []events.Event {
	return a.domainEvents
}

// PullDomainEvents returns the recorded events and clears them.
func (a *AggregateRoot) PullDomainEvents() []events.Event {
	evts := a.domainEvents
	a.domainEvents = nil
	return evts
}
