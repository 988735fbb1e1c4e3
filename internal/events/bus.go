// Package events provides an in-process, synchronous event bus that delivers
// sdk events to subscribed handlers and mirrors each one to the log.
package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// Bus delivers events to subscribers in registration order. Publish blocks
// until every handler returned.
type Bus struct {
	logger *logger.Logger
	subs   map[sdk.EventType][]subscriptionEntry
	index  map[sdk.SubscriptionID]sdk.EventType
	mu     sync.RWMutex
}

type subscriptionEntry struct {
	id      sdk.SubscriptionID
	handler sdk.EventHandler
}

// NewBus creates a bus that writes each event as a structured log entry.
func NewBus(log *logger.Logger) *Bus {
	return &Bus{
		logger: log,
		subs:   make(map[sdk.EventType][]subscriptionEntry),
		index:  make(map[sdk.SubscriptionID]sdk.EventType),
	}
}

// Publish logs the event and runs every handler subscribed to its type.
// Handler failures are logged and do not stop delivery.
func (b *Bus) Publish(ctx context.Context, event sdk.Event) error {
	if b == nil {
		return nil
	}
	if event.Type == "" {
		return fmt.Errorf("event type is required")
	}

	b.mu.RLock()
	handlers := append([]subscriptionEntry(nil), b.subs[event.Type]...)
	b.mu.RUnlock()

	b.logger.WithFields(map[string]any{
		"event_type":  string(event.Type),
		"subscribers": len(handlers),
	}).Debug("event published")

	for _, entry := range handlers {
		if err := entry.handler(ctx, event); err != nil {
			b.logger.WithFields(map[string]any{
				"event_type":   string(event.Type),
				"subscription": string(entry.id),
			}).Error(err, "event handler failed")
		}
	}
	return nil
}

// Subscribe registers handler for eventType.
func (b *Bus) Subscribe(eventType sdk.EventType, handler sdk.EventHandler) (sdk.SubscriptionID, error) {
	if eventType == "" {
		return "", fmt.Errorf("event type is required")
	}
	if handler == nil {
		return "", fmt.Errorf("handler for %s is nil", eventType)
	}

	id := sdk.SubscriptionID(uuid.NewString())

	b.mu.Lock()
	b.subs[eventType] = append(b.subs[eventType], subscriptionEntry{id: id, handler: handler})
	b.index[id] = eventType
	b.mu.Unlock()

	return id, nil
}

// Unsubscribe removes the handler registered under id.
func (b *Bus) Unsubscribe(id sdk.SubscriptionID) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	eventType, ok := b.index[id]
	if !ok {
		return fmt.Errorf("subscription %s not found", id)
	}
	delete(b.index, id)

	handlers := b.subs[eventType]
	for i, entry := range handlers {
		if entry.id == id {
			b.subs[eventType] = append(handlers[:i:i], handlers[i+1:]...)
			break
		}
	}
	if len(b.subs[eventType]) == 0 {
		delete(b.subs, eventType)
	}
	return nil
}

// Subscribers returns the number of handlers registered for eventType.
func (b *Bus) Subscribers(eventType sdk.EventType) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[eventType])
}
