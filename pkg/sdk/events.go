package sdk

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// EventType names a host notification plugins can subscribe to.
type EventType string

const (
	// EventActivityRecorded carries an Activity once the host persisted it.
	EventActivityRecorded EventType = "activity.recorded"
	// EventActivityUpdated carries an Activity whose end time or category changed.
	EventActivityUpdated EventType = "activity.updated"
	// EventCategoryCreated carries the new Category.
	EventCategoryCreated EventType = "category.created"
	// EventPluginInitialized is published by the host after Initialize succeeds.
	EventPluginInitialized EventType = "plugin.initialized"
	// EventPluginShutdown is published by the host before a plugin is unloaded.
	EventPluginShutdown EventType = "plugin.shutdown"
)

// SubscriptionID identifies one registered handler. It is opaque to plugins.
type SubscriptionID string

// Event is a host notification with a JSON payload.
type Event struct {
	Type      EventType       `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Timestamp time.Time       `json:"timestamp"`
}

// NewEvent marshals payload into an Event stamped with the current time.
func NewEvent(eventType EventType, payload any) (Event, error) {
	evt := Event{Type: eventType, Timestamp: time.Now().UTC()}
	if payload == nil {
		return evt, nil
	}
	raw, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", eventType, err)
	}
	evt.Payload = raw
	return evt, nil
}

// Decode unmarshals the payload into target.
func (e Event) Decode(target any) error {
	if len(e.Payload) == 0 {
		return fmt.Errorf("event %s has no payload", e.Type)
	}
	if err := json.Unmarshal(e.Payload, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Type, err)
	}
	return nil
}

// EventHandler processes one event. Returned errors are reported by the host
// and do not stop delivery to other subscribers.
type EventHandler func(context.Context, Event) error
