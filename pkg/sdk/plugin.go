package sdk

import (
	"context"
	"encoding/json"
)

// Plugin defines the capability set the host expects from every plugin.
//
// The host calls one method at a time and waits for it to return; plugins do
// not need to synchronise their own state. The call order is
// Initialize, any number of InvokeCommand, then Shutdown.
type Plugin interface {
	// Info returns static metadata. It has no side effects and never fails.
	Info() PluginInfo

	// Initialize performs one-time setup. It may register schema extensions
	// and event subscriptions through api; a rejection from the host is
	// returned wrapped.
	Initialize(ctx context.Context, api PluginAPI) error

	// InvokeCommand serves a host-routed command. Unrecognised names return
	// an UnknownCommandError.
	InvokeCommand(ctx context.Context, name string, params json.RawMessage, api PluginAPI) (json.RawMessage, error)

	// Shutdown releases resources. Calling it more than once is a no-op.
	Shutdown(ctx context.Context) error

	// SchemaExtensions declares the schema changes the plugin needs. It is
	// side-effect free and may return nil.
	SchemaExtensions() []SchemaExtension

	// FrontendBundle returns optional UI assets; nil means the plugin has no UI.
	FrontendBundle() []byte
}
