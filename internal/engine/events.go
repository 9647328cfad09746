package engine

import "time"

// EventType identifies a progress event.
type EventType string

const (
	EventRegistering EventType = "registering"
	EventRegistered  EventType = "registered"
	EventDeleting    EventType = "deleting"
	EventDeleted     EventType = "deleted"
	EventFailed      EventType = "failed"
)

// Event reports progress on one resource.
type Event struct {
	Type EventType
	Key  string
	Kind string
	Name string

	// Step is the dependency step the resource belongs to. Index counts
	// resources from 1 to Total across all steps.
	Step  int
	Index int
	Total int

	Duration time.Duration
	Err      error
}

// Observer receives progress events.
type Observer func(Event)
