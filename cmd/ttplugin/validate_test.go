package main

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestValidateRepositoryPlugin(t *testing.T) {
	output, _, err := execute(t, "--manifest", repoManifest, "validate")
	require.NoError(t, err)
	require.Contains(t, output, "manifest")
	require.Contains(t, output, "schema extensions")
	require.Contains(t, output, "command get_example_data")
	require.NotContains(t, output, "FAIL")
}

func TestValidateReportsUnhandledCommand(t *testing.T) {
	path := writeTempManifest(t, `id: example-plugin
name: Example Plugin
version: 1.0.0
library: example-plugin.so
commands: [get_example_data, export_report]
`)

	output, _, err := execute(t, "--manifest", path, "validate")
	require.ErrorIs(t, err, errValidationFailed)
	require.ErrorContains(t, err, "1 of")
	require.Contains(t, output, "FAIL command export_report")
	require.NotContains(t, output, "FAIL command get_example_data")
}

func TestValidateReportsInfoMismatch(t *testing.T) {
	path := writeTempManifest(t, "id: notes-plugin\nname: Notes\nversion: 1.0.0\nlibrary: notes.so\n")

	output, _, err := execute(t, "--manifest", path, "validate")
	require.ErrorIs(t, err, errValidationFailed)
	require.Contains(t, output, "FAIL plugin info")
}

func TestValidateMissingManifest(t *testing.T) {
	output, _, err := execute(t, "--manifest", filepath.Join(t.TempDir(), "absent.yaml"), "validate")
	require.ErrorIs(t, err, errValidationFailed)
	require.Contains(t, output, "FAIL manifest")
}

func TestWatchLoopRunsOnManifestChange(t *testing.T) {
	path := writeTempManifest(t, "id: example-plugin\n")

	watcher, err := newManifestWatcher(path)
	require.NoError(t, err)
	defer watcher.Close()

	ctx, cancel := context.WithCancel(context.Background())
	var runs atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchLoop(ctx, watcher, path, func() { runs.Add(1) })
	}()

	sibling := filepath.Join(filepath.Dir(path), "notes.txt")
	require.NoError(t, os.WriteFile(sibling, []byte("ignored"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("id: example-plugin\nname: Example Plugin\n"), 0o644))

	require.Eventually(t, func() bool { return runs.Load() > 0 }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch loop did not stop after cancellation")
	}
}
