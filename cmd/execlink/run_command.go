package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"execlink/internal/config"
	"execlink/internal/ingest"
	"execlink/internal/notifications"
	"execlink/internal/pipeline"
	"execlink/internal/review"
	"execlink/internal/sink"
	"execlink/internal/store"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var noReview bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Load, group, review, and upload executive records",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				logger, err := ctx.logger()
				if err != nil {
					return err
				}
				source, err := ingest.Open(cfg)
				if err != nil {
					return err
				}
				snk, err := sink.Open(cfg)
				if err != nil {
					return err
				}

				var reviewer review.Reviewer
				if !noReview && isatty.IsTerminal(os.Stdin.Fd()) {
					reviewer = review.NewConsoleReviewer(cmd.InOrStdin(), cmd.OutOrStdout())
				}

				p, err := pipeline.New(cfg, st, source, snk, notifications.NewService(cfg), reviewer, logger)
				if err != nil {
					return err
				}
				summary, err := p.Run(cmd.Context())
				if err != nil {
					if errors.Is(err, pipeline.ErrLocked) {
						return err
					}
					return fmt.Errorf("run: %w", err)
				}
				printSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&noReview, "no-review", false, "Skip the interactive review; uncertain groups stay pending")
	return cmd
}

func printSummary(cmd *cobra.Command, summary *pipeline.Summary) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s\n", summary.RunID)
	fmt.Fprintln(out, renderTable(
		[]string{"Records", "Groups", "Auto", "Review", "Single", "Confirmed", "Rejected", "Open"},
		[][]string{{
			fmt.Sprintf("%d", summary.Records),
			fmt.Sprintf("%d", summary.Clusters),
			fmt.Sprintf("%d", summary.AutoAccepted),
			fmt.Sprintf("%d", summary.NeedsReview),
			fmt.Sprintf("%d", summary.NoGroup),
			fmt.Sprintf("%d", summary.Confirmed),
			fmt.Sprintf("%d", summary.Rejected),
			fmt.Sprintf("%d", summary.Unresolved),
		}},
		[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
	))
	if summary.ArtifactPath != "" {
		fmt.Fprintf(out, "Review artifact: %s\n", summary.ArtifactPath)
	}
	if summary.Completed {
		fmt.Fprintf(out, "Completed in %s: %d person records, %d company links written\n",
			summary.Duration.Round(summaryDurationUnit), summary.Upload.Persons, summary.Upload.Links)
		for _, failure := range summary.Upload.Failures {
			fmt.Fprintf(out, "  upload failure: %s\n", failure)
		}
	} else {
		fmt.Fprintf(out, "%d groups still need review; run `execlink review` to finish\n", summary.Unresolved)
	}
}
