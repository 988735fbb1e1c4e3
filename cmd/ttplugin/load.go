package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/loader"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/plugintest"
)

var openLibrary = loader.Open

func newLoadCmd(root *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <library.so>",
		Short: "Load a built plugin library and run its lifecycle once",
		Long: `Load opens the shared object, resolves the entry points named in the
manifest, initializes the instance against a development host, shuts it
down and destroys it. Build the library with:

  go build -buildmode=plugin -o example-plugin.so ./cmd/exampleplugin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			return runLoad(cmd.Context(), cmd.OutOrStdout(), s, args[0])
		},
	}

	return cmd
}

func runLoad(ctx context.Context, out io.Writer, s *session, path string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	m, err := s.manifest()
	if err != nil {
		return err
	}

	loaded, err := openLibrary(path, m)
	if err != nil {
		return err
	}
	info := loaded.Plugin.Info()
	log := s.log.WithFields(map[string]any{"plugin": info.ID, "library": path})
	log.Debug("library loaded")

	host := plugintest.NewHost(append(devHostOptions(), plugintest.WithLogger(log.Zerolog()))...)
	if err := loaded.Plugin.Initialize(ctx, host); err != nil {
		return errors.Join(err, loaded.Close())
	}

	exts := host.Extensions()
	shutdownErr := loaded.Plugin.Shutdown(ctx)
	if err := errors.Join(shutdownErr, loaded.Close()); err != nil {
		return err
	}

	fmt.Fprintf(out, "%s %s v%s: loaded, %d schema extension(s) registered, destroyed cleanly\n",
		passStyle.Render("ok"), info.ID, info.Version, len(exts))
	return nil
}
