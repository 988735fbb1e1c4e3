package main

import (
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/example"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/manifest"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

type rootFlags struct {
	manifestPath string
	verbose      bool
	logFormat    string
}

// newPlugin builds the plugin under development. Point it at your own
// package when you start from this template.
var newPlugin = func(log *logger.Logger) sdk.Plugin {
	return example.New(example.WithLogger(log))
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "ttplugin",
		Short:         "Develop and check TimeTracker plugins",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.manifestPath, "manifest", "m", manifest.DefaultFile, "Path to the plugin manifest")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "auto", "Log format: auto, json or console")

	cmd.AddCommand(newInfoCmd(flags))
	cmd.AddCommand(newValidateCmd(flags))
	cmd.AddCommand(newSchemaCmd(flags))
	cmd.AddCommand(newInvokeCmd(flags))
	cmd.AddCommand(newLoadCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}
