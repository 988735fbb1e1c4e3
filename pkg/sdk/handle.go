package sdk

import "sync/atomic"

// Exported symbol names the host resolves in a plugin library.
const (
	CreateSymbol  = "PluginCreate"
	DestroySymbol = "PluginDestroy"
)

// Factory builds a fresh plugin instance.
type Factory func() Plugin

// Handle owns exactly one plugin instance on behalf of the host. It is
// produced by the create entry point and consumed by the destroy entry point;
// after Release the instance is unreachable through the handle.
type Handle struct {
	held atomic.Pointer[owned]
}

// owned boxes the instance so a nil Plugin from a factory still counts as
// held until Release.
type owned struct {
	plugin Plugin
}

// NewHandle builds a plugin with factory and wraps it in a Handle.
func NewHandle(factory Factory) *Handle {
	h := &Handle{}
	h.held.Store(&owned{plugin: factory()})
	return h
}

// Plugin returns the owned instance, or ErrHandleReleased once released.
func (h *Handle) Plugin() (Plugin, error) {
	if h == nil {
		return nil, ErrHandleReleased
	}
	o := h.held.Load()
	if o == nil {
		return nil, ErrHandleReleased
	}
	return o.plugin, nil
}

// Released reports whether Release has been called.
func (h *Handle) Released() bool {
	return h == nil || h.held.Load() == nil
}

// Release drops the instance. Only the first call succeeds; later calls
// return ErrHandleReleased. Release does not call Shutdown, the host does
// that beforehand.
func (h *Handle) Release() error {
	if h == nil || h.held.Swap(nil) == nil {
		return ErrHandleReleased
	}
	return nil
}
