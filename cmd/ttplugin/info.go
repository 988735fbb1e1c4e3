package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/manifest"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/pkg/sdk"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	labelStyle = lipgloss.NewStyle().Faint(true).Width(14)
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
)

type infoOptions struct {
	jsonOutput bool
}

type infoReport struct {
	Manifest   *manifest.Manifest    `json:"manifest"`
	Info       sdk.PluginInfo        `json:"info"`
	Extensions []sdk.SchemaExtension `json:"schema_extensions"`
	Frontend   bool                  `json:"frontend_bundle"`
	Mismatches []string              `json:"mismatches,omitempty"`
}

func newInfoCmd(root *rootFlags) *cobra.Command {
	opts := &infoOptions{}

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Show the manifest and the identity the plugin reports",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd, root)
			if err != nil {
				return err
			}
			return runInfo(cmd.OutOrStdout(), s, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output in JSON format")

	return cmd
}

func runInfo(out io.Writer, s *session, opts *infoOptions) error {
	m, err := s.manifest()
	if err != nil {
		return err
	}

	p := newPlugin(s.log)
	report := infoReport{
		Manifest:   m,
		Info:       p.Info(),
		Extensions: p.SchemaExtensions(),
		Frontend:   len(p.FrontendBundle()) > 0,
	}
	report.Mismatches = m.CheckInfo(report.Info)

	if opts.jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	renderInfo(out, report)
	return nil
}

func renderInfo(out io.Writer, r infoReport) {
	m := r.Manifest
	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("%s (%s) v%s", r.Info.Name, r.Info.ID, r.Info.Version)))

	row := func(label, value string) {
		if value == "" {
			return
		}
		fmt.Fprintf(out, "%s %s\n", labelStyle.Render(label), value)
	}

	row("Description", r.Info.Description)
	row("Author", m.Author)
	row("API version", m.APIVersion)
	row("Library", m.Library)
	row("Entry points", m.EntryPoints.Create+", "+m.EntryPoints.Destroy)
	row("Commands", strings.Join(m.Commands, ", "))

	changes := 0
	for _, ext := range r.Extensions {
		changes += len(ext.Changes)
	}
	row("Schema", fmt.Sprintf("%d extension(s), %d change(s)", len(r.Extensions), changes))

	frontend := "none"
	if r.Frontend {
		frontend = "embedded"
	}
	row("Frontend", frontend)

	for _, mismatch := range r.Mismatches {
		fmt.Fprintln(out, warnStyle.Render("warning: "+mismatch))
	}
}
