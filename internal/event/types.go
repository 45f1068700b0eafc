package event

import "time"

// Event is the interface that all events must implement.
type Event interface {
	// EventType returns a string identifier for this event type.
	// Convention: "category.action" (e.g., "slot.updated").
	EventType() string

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// Event type identifiers.
const (
	TypeSlotUpdated      = "slot.updated"
	TypeRefreshCompleted = "refresh.completed"
	TypeFetchFailed      = "fetch.failed"
	TypeConfigReloaded   = "config.reloaded"
)

// baseEvent provides common fields for all events.
// Embed this in concrete event types to satisfy the Event interface.
type baseEvent struct {
	eventType string
	timestamp time.Time
}

func (e baseEvent) EventType() string    { return e.eventType }
func (e baseEvent) Timestamp() time.Time { return e.timestamp }

func newBaseEvent(eventType string) baseEvent {
	return baseEvent{
		eventType: eventType,
		timestamp: time.Now(),
	}
}

// SlotUpdatedEvent is emitted after a dashboard slot was overwritten.
type SlotUpdatedEvent struct {
	baseEvent
	Slot    string // Slot name, e.g. "joke" or "target/国庆"
	Visible bool   // Whether the slot is shown after the write
}

// NewSlotUpdatedEvent creates a SlotUpdatedEvent.
func NewSlotUpdatedEvent(slot string, visible bool) SlotUpdatedEvent {
	return SlotUpdatedEvent{
		baseEvent: newBaseEvent(TypeSlotUpdated),
		Slot:      slot,
		Visible:   visible,
	}
}

// RefreshCompletedEvent is emitted after a refresh pass wrote its
// synchronous slots. An asynchronous joke fetch may still be pending.
type RefreshCompletedEvent struct {
	baseEvent
	Tick int  // Tick counter of the Run loop; 0 for manual refreshes
	Full bool // False when only the clock-driven slots were recomputed
}

// NewRefreshCompletedEvent creates a RefreshCompletedEvent.
func NewRefreshCompletedEvent(tick int, full bool) RefreshCompletedEvent {
	return RefreshCompletedEvent{
		baseEvent: newBaseEvent(TypeRefreshCompleted),
		Tick:      tick,
		Full:      full,
	}
}

// FetchFailedEvent is emitted when the external text provider failed and
// the fallback text was published instead.
type FetchFailedEvent struct {
	baseEvent
	Endpoint string
	Kind     string // "network" or "response"
	Err      error
}

// NewFetchFailedEvent creates a FetchFailedEvent.
func NewFetchFailedEvent(endpoint, kind string, err error) FetchFailedEvent {
	return FetchFailedEvent{
		baseEvent: newBaseEvent(TypeFetchFailed),
		Endpoint:  endpoint,
		Kind:      kind,
		Err:       err,
	}
}

// ConfigReloadedEvent is emitted when the configuration file changed on
// disk and was re-read.
type ConfigReloadedEvent struct {
	baseEvent
	Path string
}

// NewConfigReloadedEvent creates a ConfigReloadedEvent.
func NewConfigReloadedEvent(path string) ConfigReloadedEvent {
	return ConfigReloadedEvent{
		baseEvent: newBaseEvent(TypeConfigReloaded),
		Path:      path,
	}
}
