package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/plugintest"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

func TestEntryPointsBalance(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	h := PluginCreate()
	p, err := h.Plugin()
	require.NoError(t, err)
	require.Equal(t, "example-plugin", p.Info().ID)

	require.NoError(t, p.Initialize(ctx, plugintest.NewHost()))
	require.NoError(t, p.Shutdown(ctx))

	require.NoError(t, PluginDestroy(h))
	require.True(t, h.Released())
	require.ErrorIs(t, PluginDestroy(h), sdk.ErrHandleReleased)
}

func TestEachCreateReturnsAFreshInstance(t *testing.T) {
	t.Parallel()

	a, b := PluginCreate(), PluginCreate()
	pa, err := a.Plugin()
	require.NoError(t, err)
	pb, err := b.Plugin()
	require.NoError(t, err)
	require.NotSame(t, pa, pb)

	require.NoError(t, PluginDestroy(a))
	_, err = b.Plugin()
	require.NoError(t, err, "releasing one handle must not affect another")
	require.NoError(t, PluginDestroy(b))
}
