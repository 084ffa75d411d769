package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"artmatch/internal/common/logger"
	"artmatch/internal/matching"
	"artmatch/internal/sources"
)

const (
	app             = "matchctl"
	defaultFixtures = "fixtures/sample.yaml"
)

type rootOptions struct {
	fixtures   string
	phrasebook string
	debug      bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          app,
		Short:        "matchctl ranks artist candidates for a project from a fixture file",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.fixtures, "fixtures", "f", defaultFixtures, "YAML fixture file with projects, curators, artists and the audience model")
	cmd.PersistentFlags().StringVar(&opts.phrasebook, "phrasebook", "en", "explanation language (en, ko)")
	cmd.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "verbose/debug output")

	cmd.AddCommand(newRankCmd(opts), newScoreCmd(opts), newTasksCmd(), newVersionCmd())
	return cmd
}

func (o *rootOptions) logger() logger.Logger {
	if o.debug {
		return logger.NewStructured("debug", "console")
	}
	return logger.NewStructured("warn", "console")
}

func (o *rootOptions) ranker() (*matching.Ranker, error) {
	pb, ok := matching.PhrasebookFor(o.phrasebook)
	if !ok {
		return nil, fmt.Errorf("unknown phrasebook %q", o.phrasebook)
	}
	return matching.NewRanker(matching.WithPhrasebook(pb)), nil
}

func (o *rootOptions) provider() (*sources.FixtureProvider, error) {
	p, err := sources.LoadFixtures(o.fixtures)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", o.fixtures, err)
	}
	return p, nil
}
