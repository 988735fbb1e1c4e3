// Package logger is the structured logger shared by plugins, the test host
// and the ttplugin CLI. Entries are zerolog JSON unless a console format is
// requested or detected.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

// Format selects how entries are encoded.
type Format string

const (
	// FormatAuto picks FormatConsole when the writer is a terminal.
	FormatAuto    Format = "auto"
	FormatJSON    Format = "json"
	FormatConsole Format = "console"
)

// ParseFormat maps a --log-format value to a Format. The empty string is
// FormatAuto.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatConsole:
		return f, nil
	default:
		return "", fmt.Errorf("unknown log format %q (want auto, json or console)", s)
	}
}

// console reports whether f renders human readable output on w.
func (f Format) console(w io.Writer) bool {
	switch f {
	case FormatConsole:
		return true
	case FormatJSON:
		return false
	default:
		file, ok := w.(*os.File)
		return ok && term.IsTerminal(int(file.Fd()))
	}
}

// Options configures New. The zero value logs at info level to stdout.
type Options struct {
	Level  string
	Format Format
	Writer io.Writer
	// Plugin is attached to every entry as the "plugin" field when set.
	Plugin string
}

// Logger wraps a zerolog.Logger. A nil *Logger drops everything.
type Logger struct {
	base zerolog.Logger
}

// New creates a Logger from opts.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := zerolog.InfoLevel
	if opts.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	output := writer
	if opts.Format.console(writer) {
		console := zerolog.NewConsoleWriter()
		console.Out = writer
		console.TimeFormat = time.RFC3339
		output = console
	}

	ctx := zerolog.New(output).Level(level).With().Timestamp()
	if opts.Plugin != "" {
		ctx = ctx.Str("plugin", opts.Plugin)
	}
	return &Logger{base: ctx.Logger()}, nil
}

// FromZerolog adopts a logger configured by the caller, typically a host
// embedding the SDK with its own zerolog setup.
func FromZerolog(base zerolog.Logger) *Logger {
	return &Logger{base: base}
}

// Discard returns a logger that drops every entry.
func Discard() *Logger {
	return &Logger{base: zerolog.Nop()}
}

// Zerolog exposes the underlying zerolog.Logger. A nil Logger yields a
// disabled one.
func (l *Logger) Zerolog() zerolog.Logger {
	if l == nil {
		return zerolog.Nop()
	}
	return l.base
}

// WithFields returns a derived logger that always writes the supplied fields.
func (l *Logger) WithFields(fields map[string]any) *Logger {
	if l == nil {
		return nil
	}

	builder := l.base.With()
	for key, value := range fields {
		builder = builder.Interface(key, value)
	}
	return &Logger{base: builder.Logger()}
}

func (l *Logger) Info(msg string) {
	if l == nil {
		return
	}
	l.base.Info().Msg(msg)
}

func (l *Logger) Debug(msg string) {
	if l == nil {
		return
	}
	l.base.Debug().Msg(msg)
}

func (l *Logger) Warn(msg string) {
	if l == nil {
		return
	}
	l.base.Warn().Msg(msg)
}

// Error logs msg with err attached under the "error" key.
func (l *Logger) Error(err error, msg string) {
	if l == nil {
		return
	}
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	event.Msg(msg)
}
