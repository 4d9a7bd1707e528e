package contracts

import "github.com/rai/userdirectory/modules/shared/events"

// Directory module event types.
const (
	FilterChangedEventType     events.EventType = "directory.FilterChanged"
	SnapshotRefreshedEventType events.EventType = "directory.SnapshotRefreshed"
)

// FilterChangedEvent is published when the operator changes the active
// filter criteria. The page has already been reset to 1 when it is published.
type FilterChangedEvent struct {
	events.BaseEvent
	Search  string `json:"search"`
	Company string `json:"company"`
	Letter  string `json:"letter"`
}

// SnapshotRefreshedEvent is published after the user collection was refetched.
// Error is non-empty when the fetch failed and the snapshot is empty.
type SnapshotRefreshedEvent struct {
	events.BaseEvent
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}
