package main

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestInfoRendersManifestAndPlugin(t *testing.T) {
	output, _, err := execute(t, "--manifest", repoManifest, "info")
	require.NoError(t, err)
	require.Contains(t, output, "Example Plugin (example-plugin) v1.0.0")
	require.Contains(t, output, "get_example_data")
	require.Contains(t, output, "PluginCreate, PluginDestroy")
	require.Contains(t, output, "1 extension(s), 2 change(s)")
	require.NotContains(t, output, "warning:")
}

func TestInfoJSON(t *testing.T) {
	output, _, err := execute(t, "--manifest", repoManifest, "info", "--json")
	require.NoError(t, err)

	var report struct {
		Manifest struct {
			ID      string `json:"id"`
			Library string `json:"library"`
		} `json:"manifest"`
		Info struct {
			ID string `json:"id"`
		} `json:"info"`
		Extensions []json.RawMessage `json:"schema_extensions"`
		Mismatches []string          `json:"mismatches"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &report))
	require.Equal(t, "example-plugin", report.Manifest.ID)
	require.Equal(t, "example-plugin.so", report.Manifest.Library)
	require.Equal(t, "example-plugin", report.Info.ID)
	require.Len(t, report.Extensions, 1)
	require.Empty(t, report.Mismatches)
}

func TestInfoWarnsOnMismatch(t *testing.T) {
	path := writeTempManifest(t, "id: example-plugin\nname: Example Plugin\nversion: 2.0.0\nlibrary: example-plugin.so\n")

	output, _, err := execute(t, "--manifest", path, "info")
	require.NoError(t, err)
	require.Contains(t, output, "warning: version")
}
