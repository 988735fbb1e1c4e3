package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/schema"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/plugintest"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

var (
	passStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// errValidationFailed is returned once every check has been reported.
var errValidationFailed = errors.New("validation failed")

type validateOptions struct {
	watch bool
}

type check struct {
	name string
	err  error
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the manifest, plugin identity, schema and declared commands",
		Long: `Validate loads the manifest, builds the plugin and checks that it agrees
with the manifest. Schema extensions are applied to an in-memory SQLite
database seeded with the host tables, and every declared command is invoked
against a test host to confirm the plugin handles it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}

			if !opts.watch {
				return runValidate(cmd.Context(), cmd.OutOrStdout(), s)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return watchValidate(ctx, cmd.OutOrStdout(), s)
		},
	}

	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Re-validate whenever the manifest changes")

	return cmd
}

func runValidate(ctx context.Context, out io.Writer, s *session) error {
	if ctx == nil {
		ctx = context.Background()
	}

	checks := validatePlugin(ctx, s)
	failed := 0
	for _, c := range checks {
		if c.err != nil {
			failed++
			fmt.Fprintf(out, "%s %s: %v\n", failStyle.Render("FAIL"), c.name, c.err)
			continue
		}
		fmt.Fprintf(out, "%s %s\n", passStyle.Render("ok  "), c.name)
	}

	if failed > 0 {
		s.log.WithFields(map[string]any{"failed": failed}).Warn("validation failed")
		return fmt.Errorf("%w: %d of %d checks", errValidationFailed, failed, len(checks))
	}
	s.log.Debug("validation passed")
	return nil
}

func validatePlugin(ctx context.Context, s *session) []check {
	m, err := s.manifest()
	if err != nil {
		return []check{{name: "manifest", err: err}}
	}
	checks := []check{{name: "manifest"}}

	p := newPlugin(s.log)
	info := p.Info()
	infoErr := info.Validate()
	if infoErr == nil {
		if mismatches := m.CheckInfo(info); len(mismatches) > 0 {
			infoErr = fmt.Errorf("manifest does not match plugin info: %v", mismatches)
		}
	}
	checks = append(checks, check{name: "plugin info", err: infoErr})

	exts := p.SchemaExtensions()
	checks = append(checks, check{name: "schema extensions", err: validateSchema(ctx, exts)})

	host := plugintest.NewHost(
		plugintest.WithLogger(s.log.Zerolog()),
		plugintest.WithDefaultDBMethod(func(context.Context, json.RawMessage) (json.RawMessage, error) {
			return json.RawMessage(`[]`), nil
		}),
	)
	if err := p.Initialize(ctx, host); err != nil {
		return append(checks, check{name: "initialize", err: err})
	}
	checks = append(checks, check{name: "initialize"})

	for _, name := range m.Commands {
		_, err := p.InvokeCommand(ctx, name, json.RawMessage(`{}`), host)
		if errors.Is(err, sdk.ErrUnknownCommand) {
			checks = append(checks, check{name: "command " + name, err: errors.New("declared in manifest but not handled")})
			continue
		}
		if err != nil {
			s.log.WithFields(map[string]any{"command_name": name, "error": err.Error()}).Debug("command failed with empty parameters")
		}
		checks = append(checks, check{name: "command " + name})
	}

	return append(checks, check{name: "shutdown", err: p.Shutdown(ctx)})
}

func validateSchema(ctx context.Context, exts []sdk.SchemaExtension) error {
	for i, ext := range exts {
		if err := ext.Validate(); err != nil {
			return fmt.Errorf("extensions[%d]: %w", i, err)
		}
	}
	if _, err := schema.RenderAll(exts); err != nil {
		return err
	}

	db, err := plugintest.OpenScratchDB()
	if err != nil {
		return err
	}
	defer db.Close()

	return plugintest.ApplySchema(ctx, db, exts)
}

func watchValidate(ctx context.Context, out io.Writer, s *session) error {
	watcher, err := newManifestWatcher(s.flags.manifestPath)
	if err != nil {
		return err
	}
	defer watcher.Close()

	rerun := func() {
		if err := runValidate(ctx, out, s); err != nil {
			fmt.Fprintln(out, err)
		}
		fmt.Fprintln(out, "watching", s.flags.manifestPath)
	}
	rerun()

	return watchLoop(ctx, watcher, s.flags.manifestPath, rerun)
}

// newManifestWatcher watches the directory holding path so editors that
// replace the file on save are still observed.
func newManifestWatcher(path string) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}
	return watcher, nil
}

func watchLoop(ctx context.Context, watcher *fsnotify.Watcher, path string, onChange func()) error {
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case evt, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(evt.Name) != target {
				continue
			}
			if evt.Has(fsnotify.Write) || evt.Has(fsnotify.Create) || evt.Has(fsnotify.Rename) {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", path, err)
		}
	}
}
