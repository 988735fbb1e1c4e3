package sdk

import (
	"context"
	"encoding/json"
)

// PluginAPI is the handle the host passes to Initialize and InvokeCommand.
// It is implemented by the host; plugins must not retain it beyond the
// lifetime of the instance it was given to.
type PluginAPI interface {
	// RegisterSchemaExtension asks the host to apply changes to entity at a
	// time of its choosing. The host may reject the request.
	RegisterSchemaExtension(ctx context.Context, entity EntityType, changes []SchemaChange) error

	// CallDBMethod runs a named host data accessor with JSON parameters.
	CallDBMethod(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error)

	// Subscribe registers handler for eventType.
	Subscribe(eventType EventType, handler EventHandler) (SubscriptionID, error)

	// Unsubscribe removes a handler registered with Subscribe.
	Unsubscribe(id SubscriptionID) error

	// Publish hands an event to the host bus.
	Publish(ctx context.Context, event Event) error
}
