package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/plugintest"
)

type invokeOptions struct {
	params string
}

func newInvokeCmd(root *rootFlags) *cobra.Command {
	opts := &invokeOptions{}

	cmd := &cobra.Command{
		Use:   "invoke <command>",
		Short: "Run one plugin command against a development host",
		Long: `Invoke initializes the plugin against an in-process host that serves
sample activities and categories, runs the named command and prints its
JSON result.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			return runInvoke(cmd.Context(), cmd.OutOrStdout(), s, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.params, "params", "p", "{}", "Command parameters as JSON")

	return cmd
}

func runInvoke(ctx context.Context, out io.Writer, s *session, name string, opts *invokeOptions) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}
	params := json.RawMessage(opts.params)
	if !json.Valid(params) {
		return fmt.Errorf("--params is not valid JSON: %s", opts.params)
	}

	if m, mErr := s.manifest(); mErr == nil && !m.Declares(name) {
		s.log.WithFields(map[string]any{"command_name": name}).Warn("command is not declared in the manifest")
	}

	host := plugintest.NewHost(append(devHostOptions(), plugintest.WithLogger(s.log.Zerolog()))...)
	p := newPlugin(s.log)
	if err := p.Initialize(ctx, host); err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, p.Shutdown(ctx))
	}()

	result, err := p.InvokeCommand(ctx, name, params, host)
	if err != nil {
		return err
	}

	if len(result) == 0 {
		fmt.Fprintln(out, "null")
		return nil
	}
	var pretty bytes.Buffer
	if err := json.Indent(&pretty, result, "", "  "); err != nil {
		return fmt.Errorf("command %s returned invalid JSON: %w", name, err)
	}
	fmt.Fprintln(out, pretty.String())
	return nil
}
