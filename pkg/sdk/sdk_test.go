package sdk

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestPluginInfoValidate(t *testing.T) {
	t.Parallel()

	valid := PluginInfo{ID: "example-plugin", Name: "Example Plugin", Version: "1.0.0"}
	require.NoError(t, valid.Validate())

	tests := map[string]PluginInfo{
		"missing id":        {Name: "Example", Version: "1.0.0"},
		"uppercase id":      {ID: "Example", Name: "Example", Version: "1.0.0"},
		"missing name":      {ID: "example", Version: "1.0.0"},
		"non-semver":        {ID: "example", Name: "Example", Version: "v1"},
		"trailing dash id":  {ID: "example-", Name: "Example", Version: "1.0.0"},
		"missing version":   {ID: "example", Name: "Example"},
		"two-part version":  {ID: "example", Name: "Example", Version: "1.0"},
		"whitespace in id":  {ID: "exa mple", Name: "Example", Version: "1.0.0"},
		"underscore in id":  {ID: "exa_mple", Name: "Example", Version: "1.0.0"},
		"leading dash id":   {ID: "-example", Name: "Example", Version: "1.0.0"},
		"double dash in id": {ID: "exa--mple", Name: "Example", Version: "1.0.0"},
	}
	for name, info := range tests {
		info := info
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			require.Error(t, info.Validate())
		})
	}
}

func TestUnknownCommandErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewUnknownCommandError("totally_unknown_command")
	require.EqualError(t, err, "Unknown command: totally_unknown_command")
	require.ErrorIs(t, err, ErrUnknownCommand)
	require.True(t, errors.Is(fmt.Errorf("wrapped: %w", err), ErrUnknownCommand))
	require.False(t, errors.Is(errors.New("other"), ErrUnknownCommand))
}

func TestUnknownCommandErrorAlwaysNamesCommand(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		name := rapid.String().Draw(t, "name")
		err := NewUnknownCommandError(name)
		if !strings.Contains(err.Error(), name) {
			t.Fatalf("error %q does not mention %q", err.Error(), name)
		}
		if !errors.Is(err, ErrUnknownCommand) {
			t.Fatalf("error for %q does not match ErrUnknownCommand", name)
		}
	})
}

type stubPlugin struct{ shutdowns int }

func (p *stubPlugin) Info() PluginInfo {
	return PluginInfo{ID: "stub", Name: "Stub", Version: "0.1.0"}
}
func (p *stubPlugin) Initialize(context.Context, PluginAPI) error { return nil }
func (p *stubPlugin) InvokeCommand(_ context.Context, name string, _ json.RawMessage, _ PluginAPI) (json.RawMessage, error) {
	return nil, NewUnknownCommandError(name)
}
func (p *stubPlugin) Shutdown(context.Context) error { p.shutdowns++; return nil }
func (p *stubPlugin) SchemaExtensions() []SchemaExtension { return nil }
func (p *stubPlugin) FrontendBundle() []byte { return nil }

func TestHandleReleasesExactlyOnce(t *testing.T) {
	t.Parallel()

	built := 0
	h := NewHandle(func() Plugin {
		built++
		return &stubPlugin{}
	})
	require.Equal(t, 1, built)
	require.False(t, h.Released())

	p, err := h.Plugin()
	require.NoError(t, err)
	assert.Equal(t, "stub", p.Info().ID)

	require.NoError(t, h.Release())
	require.True(t, h.Released())
	require.ErrorIs(t, h.Release(), ErrHandleReleased)

	p, err = h.Plugin()
	require.ErrorIs(t, err, ErrHandleReleased)
	require.Nil(t, p)
}

func TestHandleReleaseDoesNotShutdown(t *testing.T) {
	t.Parallel()

	stub := &stubPlugin{}
	h := NewHandle(func() Plugin { return stub })
	require.NoError(t, h.Release())
	require.Zero(t, stub.shutdowns)
}

func TestConcurrentReleaseSucceedsOnce(t *testing.T) {
	t.Parallel()

	h := NewHandle(func() Plugin { return &stubPlugin{} })

	const callers = 32
	var (
		wg        sync.WaitGroup
		successes atomic.Int32
		start     = make(chan struct{})
	)
	for i := 0; i < callers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			<-start
			if h.Release() == nil {
				successes.Add(1)
			}
		}()
		go func() {
			defer wg.Done()
			<-start
			if p, err := h.Plugin(); err == nil {
				assert.NotNil(t, p)
			} else {
				assert.ErrorIs(t, err, ErrHandleReleased)
			}
		}()
	}
	close(start)
	wg.Wait()

	require.Equal(t, int32(1), successes.Load())
	require.True(t, h.Released())
}

func TestNilPluginStaysHeldUntilRelease(t *testing.T) {
	t.Parallel()

	h := NewHandle(func() Plugin { return nil })
	require.False(t, h.Released())
	require.NoError(t, h.Release())
	require.ErrorIs(t, h.Release(), ErrHandleReleased)
}

func TestNilHandleIsReleased(t *testing.T) {
	t.Parallel()

	var h *Handle
	require.True(t, h.Released())
	require.ErrorIs(t, h.Release(), ErrHandleReleased)
	_, err := h.Plugin()
	require.ErrorIs(t, err, ErrHandleReleased)
}

func TestEventRoundTripsActivityPayload(t *testing.T) {
	t.Parallel()

	id := int64(42)
	started := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	activity := Activity{ID: &id, AppName: "editor", WindowTitle: "main.go", StartedAt: started}

	evt, err := NewEvent(EventActivityRecorded, activity)
	require.NoError(t, err)
	require.Equal(t, EventActivityRecorded, evt.Type)
	require.False(t, evt.Timestamp.IsZero())

	var decoded Activity
	require.NoError(t, evt.Decode(&decoded))
	require.Equal(t, "editor", decoded.AppName)
	require.Equal(t, id, *decoded.ID)
	require.True(t, decoded.StartedAt.Equal(started))
	require.Nil(t, decoded.EndedAt)
}

func TestEventWithoutPayload(t *testing.T) {
	t.Parallel()

	evt, err := NewEvent(EventPluginShutdown, nil)
	require.NoError(t, err)
	require.Empty(t, evt.Payload)

	var target map[string]any
	require.Error(t, evt.Decode(&target))

	_, err = NewEvent(EventCategoryCreated, func() {})
	require.Error(t, err)
}

func TestActivityDuration(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	open := Activity{AppName: "terminal", StartedAt: start}
	require.True(t, open.Open())
	require.Zero(t, open.Duration())

	end := start.Add(90 * time.Minute)
	closed := Activity{AppName: "terminal", StartedAt: start, EndedAt: &end}
	require.False(t, closed.Open())
	require.Equal(t, 90*time.Minute, closed.Duration())

	before := start.Add(-time.Minute)
	skewed := Activity{StartedAt: start, EndedAt: &before}
	require.Zero(t, skewed.Duration())
}
