package plugintest

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

// Options configures RunConformance.
type Options struct {
	// Commands maps every supported command name to parameters it must
	// accept without error.
	Commands map[string]json.RawMessage
	// HostOptions apply to the host built for each subtest, typically
	// WithDBMethod stubs the commands rely on.
	HostOptions []HostOption
}

// RunConformance checks that the plugins built by factory honour the sdk
// contract. Call it from the plugin's own tests:
//
//	func TestConformance(t *testing.T) {
//	    plugintest.RunConformance(t, myplugin.Factory(), plugintest.Options{})
//	}
func RunConformance(t *testing.T, factory sdk.Factory, opts Options) {
	t.Helper()

	newHost := func() *Host { return NewHost(opts.HostOptions...) }

	t.Run("Info is stable and valid", func(t *testing.T) {
		p := factory()
		first := p.Info()
		require.NoError(t, first.Validate())
		for i := 0; i < 3; i++ {
			assert.Equal(t, first, p.Info(), "Info() must not change across calls")
		}
	})

	t.Run("Initialize and Shutdown round trip", func(t *testing.T) {
		ctx := context.Background()
		p := factory()
		require.NoError(t, p.Initialize(ctx, newHost()))
		require.NoError(t, p.Shutdown(ctx))
		require.NoError(t, p.Shutdown(ctx), "Shutdown() must be idempotent")
	})

	t.Run("Handle releases exactly once", func(t *testing.T) {
		ctx := context.Background()
		h := sdk.NewHandle(factory)
		p, err := h.Plugin()
		require.NoError(t, err)
		require.NoError(t, p.Initialize(ctx, newHost()))
		require.NoError(t, p.Shutdown(ctx))

		require.NoError(t, h.Release())
		require.ErrorIs(t, h.Release(), sdk.ErrHandleReleased)
		_, err = h.Plugin()
		require.ErrorIs(t, err, sdk.ErrHandleReleased)
	})

	t.Run("Unknown commands are rejected by name", func(t *testing.T) {
		ctx := context.Background()
		host := newHost()
		p := factory()
		require.NoError(t, p.Initialize(ctx, host))
		defer p.Shutdown(ctx)

		_, err := p.InvokeCommand(ctx, "totally_unknown_command", json.RawMessage(`{}`), host)
		require.EqualError(t, err, "Unknown command: totally_unknown_command")

		rapid.Check(t, func(rt *rapid.T) {
			name := rapid.StringMatching(`[a-z_]{1,24}`).Draw(rt, "name")
			if _, supported := opts.Commands[name]; supported {
				rt.Skip("supported command")
			}
			_, err := p.InvokeCommand(ctx, name, json.RawMessage(`{}`), host)
			if err == nil {
				rt.Fatalf("command %q accepted", name)
			}
			if !errors.Is(err, sdk.ErrUnknownCommand) || !strings.Contains(err.Error(), name) {
				rt.Fatalf("command %q: unexpected error %v", name, err)
			}
		})
	})

	t.Run("Supported commands succeed", func(t *testing.T) {
		if len(opts.Commands) == 0 {
			t.Skip("plugin declares no commands")
		}
		ctx := context.Background()
		host := newHost()
		p := factory()
		require.NoError(t, p.Initialize(ctx, host))
		defer p.Shutdown(ctx)

		for name, params := range opts.Commands {
			_, err := p.InvokeCommand(ctx, name, params, host)
			require.NoError(t, err, "command %q", name)
		}
	})

	t.Run("Schema extensions are well formed", func(t *testing.T) {
		p := factory()
		exts := p.SchemaExtensions()
		assert.Equal(t, exts, p.SchemaExtensions(), "SchemaExtensions() must be side-effect free")
		for _, ext := range exts {
			require.NoError(t, ext.Validate())
		}

		db, err := OpenScratchDB()
		require.NoError(t, err)
		defer db.Close()
		require.NoError(t, ApplySchema(context.Background(), db, exts))
	})

	t.Run("Initialize surfaces schema rejection", func(t *testing.T) {
		p := factory()
		if len(p.SchemaExtensions()) == 0 {
			t.Skip("plugin declares no schema extensions")
		}
		rejection := errors.New("schema registration disabled")
		host := NewHost(append(append([]HostOption(nil), opts.HostOptions...), RejectSchema(rejection))...)
		err := p.Initialize(context.Background(), host)
		require.ErrorIs(t, err, rejection)
	})

	t.Run("FrontendBundle is stable", func(t *testing.T) {
		p := factory()
		assert.Equal(t, p.FrontendBundle(), p.FrontendBundle())
	})
}
