package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

func TestSchemaPrintsSQL(t *testing.T) {
	output, _, err := execute(t, "--manifest", repoManifest, "schema")
	require.NoError(t, err)
	require.Contains(t, output, `CREATE TABLE IF NOT EXISTS "example_plugin_notes"`)
	require.Contains(t, output, `CREATE INDEX IF NOT EXISTS "idx_example_plugin_notes_activity"`)
	require.NotContains(t, output, "-- migration")
}

func TestSchemaMigrations(t *testing.T) {
	output, _, err := execute(t, "schema", "--migrations", "--start", "5")
	require.NoError(t, err)
	require.Contains(t, output, "-- migration 5\nCREATE TABLE")
	require.Contains(t, output, "-- migration 6\nCREATE INDEX")
	require.Less(t, strings.Index(output, "-- migration 5"), strings.Index(output, "-- migration 6"))
}

func TestSchemaMigrationsJSON(t *testing.T) {
	output, _, err := execute(t, "schema", "--json")
	require.NoError(t, err)

	var migrations []sdk.Migration
	require.NoError(t, json.Unmarshal([]byte(output), &migrations))
	require.Len(t, migrations, 2)
	require.Equal(t, 1, migrations[0].Version)
	require.Equal(t, 2, migrations[1].Version)
}

func TestSchemaRejectsZeroStart(t *testing.T) {
	_, _, err := execute(t, "schema", "--migrations", "--start", "0")
	require.ErrorContains(t, err, "start at 1")
}
