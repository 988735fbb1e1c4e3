package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/logger"
	"github.com/alexisbeaulieu97/timetracker-plugin-template/internal/manifest"
)

// session carries what every subcommand needs for one invocation.
type session struct {
	log           *logger.Logger
	correlationID string
	flags         *rootFlags
}

func newSession(cmd *cobra.Command, flags *rootFlags) (*session, error) {
	format, err := logger.ParseFormat(flags.logFormat)
	if err != nil {
		return nil, err
	}

	level := "info"
	if flags.verbose {
		level = "debug"
	}

	base, err := logger.New(logger.Options{Level: level, Format: format, Writer: cmd.ErrOrStderr()})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	id := uuid.NewString()
	return &session{
		log: base.WithFields(map[string]any{
			"correlation_id": id,
			"subcommand":     cmd.Name(),
		}),
		correlationID: id,
		flags:         flags,
	}, nil
}

func (s *session) manifest() (*manifest.Manifest, error) {
	m, err := manifest.Load(s.flags.manifestPath)
	if err != nil {
		return nil, err
	}
	s.log.WithFields(map[string]any{"path": s.flags.manifestPath, "plugin": m.ID}).Debug("manifest loaded")
	return m, nil
}
