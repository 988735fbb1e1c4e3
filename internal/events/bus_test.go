package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

func newTestBus(t *testing.T) (*Bus, *bytes.Buffer) {
	t.Helper()

	buf := &bytes.Buffer{}
	log, err := logger.New(logger.Options{Level: "debug", Writer: buf})
	require.NoError(t, err)
	return NewBus(log), buf
}

func TestBusInvokesSubscribersInOrder(t *testing.T) {
	t.Parallel()

	bus, _ := newTestBus(t)

	var calls []string
	_, err := bus.Subscribe(sdk.EventActivityRecorded, func(context.Context, sdk.Event) error {
		calls = append(calls, "first")
		return nil
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(sdk.EventActivityRecorded, func(context.Context, sdk.Event) error {
		calls = append(calls, "second")
		return nil
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(sdk.EventCategoryCreated, func(context.Context, sdk.Event) error {
		calls = append(calls, "category")
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), sdk.Event{Type: sdk.EventActivityRecorded}))
	require.Equal(t, []string{"first", "second"}, calls)
}

func TestBusLogsHandlerFailuresAndContinues(t *testing.T) {
	t.Parallel()

	bus, buf := newTestBus(t)

	delivered := false
	_, err := bus.Subscribe(sdk.EventCategoryCreated, func(context.Context, sdk.Event) error {
		return errors.New("boom")
	})
	require.NoError(t, err)
	_, err = bus.Subscribe(sdk.EventCategoryCreated, func(context.Context, sdk.Event) error {
		delivered = true
		return nil
	})
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), sdk.Event{Type: sdk.EventCategoryCreated}))
	require.True(t, delivered)

	var failure map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		if entry["message"] == "event handler failed" {
			failure = entry
		}
	}
	require.NotNil(t, failure)
	require.Equal(t, "boom", failure["error"])
	require.Equal(t, string(sdk.EventCategoryCreated), failure["event_type"])
}

func TestBusUnsubscribe(t *testing.T) {
	t.Parallel()

	bus, _ := newTestBus(t)

	count := 0
	id, err := bus.Subscribe(sdk.EventActivityRecorded, func(context.Context, sdk.Event) error {
		count++
		return nil
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)
	require.Equal(t, 1, bus.Subscribers(sdk.EventActivityRecorded))

	require.NoError(t, bus.Unsubscribe(id))
	require.Zero(t, bus.Subscribers(sdk.EventActivityRecorded))
	require.Error(t, bus.Unsubscribe(id))

	require.NoError(t, bus.Publish(context.Background(), sdk.Event{Type: sdk.EventActivityRecorded}))
	require.Zero(t, count)
}

func TestBusRejectsInvalidInput(t *testing.T) {
	t.Parallel()

	bus, _ := newTestBus(t)

	_, err := bus.Subscribe("", func(context.Context, sdk.Event) error { return nil })
	require.Error(t, err)
	_, err = bus.Subscribe(sdk.EventActivityRecorded, nil)
	require.Error(t, err)
	require.Error(t, bus.Publish(context.Background(), sdk.Event{}))

	var nilBus *Bus
	require.NoError(t, nilBus.Publish(context.Background(), sdk.Event{Type: sdk.EventPluginShutdown}))
}
