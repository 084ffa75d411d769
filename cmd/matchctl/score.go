package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	apperrors "artmatch/internal/common/errors"
)

type scoreOptions struct {
	project string
	curator string
	artist  string
}

func newScoreCmd(root *rootOptions) *cobra.Command {
	opts := &scoreOptions{}

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Show the score breakdown and explanation for one artist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&opts.curator, "curator", "c", "", "curator id")
	cmd.Flags().StringVarP(&opts.artist, "artist", "a", "", "artist id")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("curator")
	_ = cmd.MarkFlagRequired("artist")

	return cmd
}

func runScore(ctx context.Context, out io.Writer, root *rootOptions, opts *scoreOptions) error {

	provider, err := root.provider()
	if err != nil {
		return err
	}
	ranker, err := root.ranker()
	if err != nil {
		return err
	}

	project, err := provider.Project(ctx, opts.project)
	if err != nil {
		return apperrors.NewProjectNotFoundError(opts.project)
	}
	curator, err := provider.Curator(ctx, opts.curator)
	if err != nil {
		return apperrors.NewCuratorNotFoundError(opts.curator)
	}
	candidate, ok := provider.Candidate(opts.artist)
	if !ok {
		return fmt.Errorf("artist %q not found in %s", opts.artist, root.fixtures)
	}
	audience, err := provider.AudienceModel(ctx)
	if err != nil {
		return err
	}

	r := ranker.Score(candidate, project, curator, audience)
	fmt.Fprintf(out, "artist:      %s\n", candidate.ID)
	fmt.Fprintf(out, "project:     %s\n", project.ID)
	fmt.Fprintf(out, "total:       %d\n", r.TotalScore)
	fmt.Fprintf(out, "basic:       %d\n", r.Breakdown.Basic)
	fmt.Fprintf(out, "style:       %d\n", r.Breakdown.Style)
	fmt.Fprintf(out, "experience:  %d\n", r.Breakdown.Experience)
	fmt.Fprintf(out, "audience:    %d\n", r.Breakdown.Audience)
	fmt.Fprintf(out, "explanation: %s\n", r.Explanation)
	return nil
}
