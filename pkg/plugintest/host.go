// Package plugintest provides a test-double host for exercising plugins in
// unit tests. It records schema registrations, serves stubbed data accessors
// and delivers events synchronously. It is not a host implementation.
package plugintest

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/events"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// DBMethod stubs one host data accessor.
type DBMethod func(ctx context.Context, params json.RawMessage) (json.RawMessage, error)

// DBCall records one CallDBMethod invocation.
type DBCall struct {
	Method string
	Params json.RawMessage
}

// Host implements sdk.PluginAPI for tests.
type Host struct {
	mu         sync.Mutex
	bus        *events.Bus
	methods    map[string]DBMethod
	fallback   DBMethod
	extensions []sdk.SchemaExtension
	calls      []DBCall
	rejectErr  error
}

// HostOption customises a Host.
type HostOption func(*Host)

// WithLogger routes event delivery diagnostics, including handler failures,
// to log.
func WithLogger(log zerolog.Logger) HostOption {
	return func(h *Host) {
		h.bus = events.NewBus(logger.FromZerolog(log))
	}
}

// WithDBMethod stubs a host data accessor.
func WithDBMethod(name string, fn DBMethod) HostOption {
	return func(h *Host) {
		h.methods[name] = fn
	}
}

// WithDefaultDBMethod serves every accessor that has no dedicated stub.
func WithDefaultDBMethod(fn DBMethod) HostOption {
	return func(h *Host) {
		h.fallback = fn
	}
}

// RejectSchema makes every RegisterSchemaExtension call fail with err.
func RejectSchema(err error) HostOption {
	return func(h *Host) {
		h.rejectErr = err
	}
}

// NewHost creates a test host. Without options it accepts every schema
// registration and has no data accessors.
func NewHost(opts ...HostOption) *Host {
	h := &Host{
		bus:     events.NewBus(logger.Discard()),
		methods: make(map[string]DBMethod),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

var _ sdk.PluginAPI = (*Host)(nil)

// RegisterSchemaExtension validates and records the request.
func (h *Host) RegisterSchemaExtension(_ context.Context, entity sdk.EntityType, changes []sdk.SchemaChange) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.rejectErr != nil {
		return h.rejectErr
	}

	ext := sdk.SchemaExtension{EntityType: entity, Changes: append([]sdk.SchemaChange(nil), changes...)}
	if err := ext.Validate(); err != nil {
		return fmt.Errorf("schema extension for %s rejected: %w", entity, err)
	}
	h.extensions = append(h.extensions, ext)
	return nil
}

// CallDBMethod runs the stub registered for method.
func (h *Host) CallDBMethod(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	h.mu.Lock()
	fn, ok := h.methods[method]
	if !ok && h.fallback != nil {
		fn, ok = h.fallback, true
	}
	h.calls = append(h.calls, DBCall{Method: method, Params: append(json.RawMessage(nil), params...)})
	h.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("unknown db method %q", method)
	}
	return fn(ctx, params)
}

// Subscribe registers handler on the host bus.
func (h *Host) Subscribe(eventType sdk.EventType, handler sdk.EventHandler) (sdk.SubscriptionID, error) {
	return h.bus.Subscribe(eventType, handler)
}

// Unsubscribe removes a handler from the host bus.
func (h *Host) Unsubscribe(id sdk.SubscriptionID) error {
	return h.bus.Unsubscribe(id)
}

// Publish delivers event to subscribers.
func (h *Host) Publish(ctx context.Context, event sdk.Event) error {
	return h.bus.Publish(ctx, event)
}

// Emit builds an event from payload and publishes it.
func (h *Host) Emit(ctx context.Context, eventType sdk.EventType, payload any) error {
	evt, err := sdk.NewEvent(eventType, payload)
	if err != nil {
		return err
	}
	return h.Publish(ctx, evt)
}

// Extensions returns the schema extensions registered so far.
func (h *Host) Extensions() []sdk.SchemaExtension {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]sdk.SchemaExtension(nil), h.extensions...)
}

// Calls returns the data accessor invocations so far.
func (h *Host) Calls() []DBCall {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]DBCall(nil), h.calls...)
}

// Subscribers returns the number of handlers registered for eventType.
func (h *Host) Subscribers(eventType sdk.EventType) int {
	return h.bus.Subscribers(eventType)
}
