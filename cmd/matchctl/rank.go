package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"artmatch/internal/matching"
	"artmatch/internal/models"
)

type rankOptions struct {
	project string
	curator string
	top     int
	json    bool
}

func newRankCmd(root *rootOptions) *cobra.Command {
	opts := &rankOptions{}

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank every fixture artist for a project and curator",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRank(cmd.Context(), cmd.OutOrStdout(), root, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.project, "project", "p", "", "project id")
	cmd.Flags().StringVarP(&opts.curator, "curator", "c", "", "curator id")
	cmd.Flags().IntVarP(&opts.top, "top", "n", 0, "show only the top N candidates (0 shows all)")
	cmd.Flags().BoolVar(&opts.json, "json", false, "print the ranking run as JSON")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("curator")

	return cmd
}

func runRank(ctx context.Context, out io.Writer, root *rootOptions, opts *rankOptions) error {
	if opts.top < 0 {
		return fmt.Errorf("--top must not be negative")
	}

	provider, err := root.provider()
	if err != nil {
		return err
	}
	ranker, err := root.ranker()
	if err != nil {
		return err
	}

	start := time.Now()
	service := matching.NewService(ranker, nil, root.logger())
	results, err := service.RankForProject(ctx, provider, opts.project, opts.curator)
	if err != nil {
		return err
	}

	records := models.FromMatchResults(results, opts.top)
	run := models.RankingRun{
		RunID:           uuid.NewString(),
		ProjectID:       opts.project,
		CuratorID:       opts.curator,
		TotalCandidates: len(results),
		Returned:        len(records),
		DurationMs:      time.Since(start).Milliseconds(),
		Results:         records,
	}

	if opts.json {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(run)
	}
	return printTable(out, records)
}

func printTable(out io.Writer, records []models.MatchResultRecord) error {
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tARTIST\tTOTAL\tBASIC\tSTYLE\tEXPERIENCE\tAUDIENCE")
	for _, r := range records {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%d\t%d\n",
			r.Rank, r.ArtistID, r.TotalScore,
			r.Breakdown.Basic, r.Breakdown.Style, r.Breakdown.Experience, r.Breakdown.Audience)
	}
	return tw.Flush()
}
