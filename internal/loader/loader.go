// Package loader opens a built plugin library and resolves the entry points
// named in its manifest. It exists so authors can smoke-test the shared
// object they ship; TimeTracker performs the same steps when loading.
package loader

import (
	"errors"
	"fmt"
	goplugin "plugin"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/manifest"
	apperrors "github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/errors"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// CreateFunc is the signature of the exported construction entry point.
type CreateFunc = func() *sdk.Handle

// DestroyFunc is the signature of the exported destruction entry point.
type DestroyFunc = func(*sdk.Handle) error

// SymbolSource resolves exported symbols. *plugin.Plugin satisfies it.
type SymbolSource interface {
	Lookup(symName string) (goplugin.Symbol, error)
}

// Loaded owns one plugin instance created through a library's entry points.
type Loaded struct {
	Handle  *sdk.Handle
	Plugin  sdk.Plugin
	destroy DestroyFunc
}

// Open loads the shared object at path and creates one instance.
func Open(path string, m *manifest.Manifest) (*Loaded, error) {
	lib, err := goplugin.Open(path)
	if err != nil {
		return nil, apperrors.NewPluginError(m.ID, fmt.Errorf("open %s: %w", path, err))
	}
	return FromSymbols(lib, m)
}

// FromSymbols resolves the manifest's entry points in src and creates one
// instance.
func FromSymbols(src SymbolSource, m *manifest.Manifest) (*Loaded, error) {
	createSym, err := src.Lookup(m.EntryPoints.Create)
	if err != nil {
		return nil, apperrors.NewPluginError(m.ID, fmt.Errorf("lookup %s: %w", m.EntryPoints.Create, err))
	}
	create, ok := createSym.(CreateFunc)
	if !ok {
		return nil, apperrors.NewPluginError(m.ID, fmt.Errorf("%s has type %T, want func() *sdk.Handle", m.EntryPoints.Create, createSym))
	}

	destroySym, err := src.Lookup(m.EntryPoints.Destroy)
	if err != nil {
		return nil, apperrors.NewPluginError(m.ID, fmt.Errorf("lookup %s: %w", m.EntryPoints.Destroy, err))
	}
	destroy, ok := destroySym.(DestroyFunc)
	if !ok {
		return nil, apperrors.NewPluginError(m.ID, fmt.Errorf("%s has type %T, want func(*sdk.Handle) error", m.EntryPoints.Destroy, destroySym))
	}

	handle := create()
	p, err := handle.Plugin()
	if err != nil {
		return nil, apperrors.NewPluginError(m.ID, err)
	}

	if mismatches := m.CheckInfo(p.Info()); len(mismatches) > 0 {
		mismatch := fmt.Errorf("manifest does not match plugin info: %v", mismatches)
		if err := destroy(handle); err != nil {
			mismatch = errors.Join(mismatch, fmt.Errorf("destroy mismatched instance: %w", err))
		}
		return nil, apperrors.NewPluginError(m.ID, mismatch)
	}

	return &Loaded{Handle: handle, Plugin: p, destroy: destroy}, nil
}

// Close hands the instance back to the library's destroy entry point. Only
// the first call reaches the library.
func (l *Loaded) Close() error {
	if l.Handle.Released() {
		return sdk.ErrHandleReleased
	}
	l.Plugin = nil
	return l.destroy(l.Handle)
}
