package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("plugin.yaml", 12, underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "plugin.yaml", parseErr.Path)
	require.Equal(t, 12, parseErr.Line)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "manifest plugin.yaml line 12: unexpected token", err.Error())
}

func TestParseErrorWithoutLine(t *testing.T) {
	t.Parallel()

	err := NewParseError("plugin.yaml", 0, stdErrors.New("no such file"))
	require.Equal(t, "manifest plugin.yaml: no such file", err.Error())
}

func TestValidationErrorNamesField(t *testing.T) {
	t.Parallel()

	err := NewValidationError("changes[0].table", "must be an identifier", nil)

	var validationErr *ValidationError
	require.ErrorAs(t, err, &validationErr)
	require.Equal(t, "changes[0].table", validationErr.Field)
	require.Equal(t, "invalid changes[0].table: must be an identifier", err.Error())

	bare := NewValidationError("", "manifest is nil", nil)
	require.Equal(t, "invalid descriptor: manifest is nil", bare.Error())
}

func TestCommandErrorNamesPluginAndCommand(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("host unavailable")
	err := NewCommandError("example-plugin", "get_example_data", underlying)

	var commandErr *CommandError
	require.ErrorAs(t, err, &commandErr)
	require.Equal(t, "example-plugin", commandErr.Plugin)
	require.Equal(t, "get_example_data", commandErr.Command)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, `plugin example-plugin: command "get_example_data": host unavailable`, err.Error())

	anonymous := NewCommandError("", "get_example_data", underlying)
	require.Equal(t, `command "get_example_data": host unavailable`, anonymous.Error())
}

func TestPluginErrorIncludesPluginID(t *testing.T) {
	t.Parallel()

	underlying := stdErrors.New("symbol not found")
	err := NewPluginError("example-plugin", underlying)

	var pluginErr *PluginError
	require.ErrorAs(t, err, &pluginErr)
	require.Equal(t, "example-plugin", pluginErr.Plugin)
	require.True(t, stdErrors.Is(err, underlying))
	require.Equal(t, "plugin example-plugin: symbol not found", err.Error())
}

func TestNilReceiversAreSafe(t *testing.T) {
	t.Parallel()

	var parseErr *ParseError
	var validationErr *ValidationError
	var commandErr *CommandError
	var pluginErr *PluginError

	require.Empty(t, parseErr.Error())
	require.Empty(t, validationErr.Error())
	require.Empty(t, commandErr.Error())
	require.Empty(t, pluginErr.Error())
	require.NoError(t, pluginErr.Unwrap())
}
