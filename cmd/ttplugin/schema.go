package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/schema"
)

type schemaOptions struct {
	migrations bool
	start      int
	jsonOutput bool
}

func newSchemaCmd(root *rootFlags) *cobra.Command {
	opts := &schemaOptions{}

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the SQL the plugin's schema extensions produce",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			return runSchema(cmd.OutOrStdout(), s, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.migrations, "migrations", false, "Number statements as versioned migrations")
	cmd.Flags().IntVar(&opts.start, "start", 1, "First migration version")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output migrations in JSON format")

	return cmd
}

func runSchema(out io.Writer, s *session, opts *schemaOptions) error {
	exts := newPlugin(s.log).SchemaExtensions()

	if !opts.migrations && !opts.jsonOutput {
		statements, err := schema.RenderAll(exts)
		if err != nil {
			return err
		}
		if len(statements) == 0 {
			fmt.Fprintln(out, "-- no schema extensions")
			return nil
		}
		fmt.Fprintln(out, strings.Join(statements, "\n\n"))
		return nil
	}

	migrations, err := schema.Migrations(exts, opts.start)
	if err != nil {
		return err
	}

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(migrations)
	}

	for i, m := range migrations {
		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "-- migration %d\n%s\n", m.Version, m.SQL)
	}
	return nil
}
