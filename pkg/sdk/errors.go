package sdk

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownCommand matches any UnknownCommandError via errors.Is.
	ErrUnknownCommand = errors.New("unknown command")
	// ErrHandleReleased is returned when a Handle is used after Release.
	ErrHandleReleased = errors.New("plugin handle already released")
)

// UnknownCommandError is returned by InvokeCommand for names the plugin does
// not serve.
type UnknownCommandError struct {
	Name string
}

// NewUnknownCommandError constructs an UnknownCommandError.
func NewUnknownCommandError(name string) error {
	return &UnknownCommandError{Name: name}
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command: %s", e.Name)
}

// Is reports whether target is ErrUnknownCommand or another UnknownCommandError.
func (e *UnknownCommandError) Is(target error) bool {
	if target == ErrUnknownCommand {
		return true
	}
	_, ok := target.(*UnknownCommandError)
	return ok
}
