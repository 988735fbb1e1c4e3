// Package errors defines the typed failures shared by the plugin SDK, the
// manifest reader and the loader. Every type wraps its cause so callers can
// still match sentinels with errors.Is.
package errors

import (
	"fmt"
)

// ParseError reports a plugin manifest that could not be read or decoded.
// Line is zero when the decoder gave no position.
type ParseError struct {
	Path string
	Line int
	Err  error
}

// NewParseError constructs a ParseError.
func NewParseError(path string, line int, err error) error {
	return &ParseError{Path: path, Line: line, Err: err}
}

func (e *ParseError) Error() string {
	if e == nil {
		return ""
	}
	if e.Line > 0 {
		return fmt.Sprintf("manifest %s line %d: %v", e.Path, e.Line, e.Err)
	}
	return fmt.Sprintf("manifest %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// ValidationError rejects a manifest field or a schema descriptor before it
// reaches the host. Field is a dotted path such as "notes.activity_id" or
// "changes[2]".
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// NewValidationError constructs a ValidationError.
func NewValidationError(field, message string, err error) error {
	return &ValidationError{Field: field, Message: message, Err: err}
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return "invalid descriptor: " + e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// CommandError is returned by InvokeCommand when a known command fails
// while the plugin serves it. Unknown names use sdk.UnknownCommandError.
type CommandError struct {
	Plugin  string
	Command string
	Err     error
}

// NewCommandError constructs a CommandError for command served by plugin.
func NewCommandError(plugin, command string, err error) error {
	return &CommandError{Plugin: plugin, Command: command, Err: err}
}

func (e *CommandError) Error() string {
	if e == nil {
		return ""
	}
	if e.Plugin == "" {
		return fmt.Sprintf("command %q: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("plugin %s: command %q: %v", e.Plugin, e.Command, e.Err)
}

func (e *CommandError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// PluginError reports a plugin that could not be loaded, initialized or
// matched against its manifest.
type PluginError struct {
	Plugin string
	Err    error
}

// NewPluginError constructs a PluginError for the given plugin id.
func NewPluginError(plugin string, err error) error {
	return &PluginError{Plugin: plugin, Err: err}
}

func (e *PluginError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("plugin %s: %v", e.Plugin, e.Err)
}

func (e *PluginError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}
