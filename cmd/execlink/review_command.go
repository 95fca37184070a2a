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

func newReviewCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Resume the review of pending groups from an earlier run",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !isatty.IsTerminal(os.Stdin.Fd()) {
				return errors.New("review needs an interactive terminal")
			}
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
				reviewer := review.NewConsoleReviewer(cmd.InOrStdin(), cmd.OutOrStdout())

				p, err := pipeline.New(cfg, st, source, snk, notifications.NewService(cfg), reviewer, logger)
				if err != nil {
					return err
				}
				summary, err := p.Resume(cmd.Context(), runID)
				if err != nil {
					if errors.Is(err, pipeline.ErrNoRun) {
						return errors.New("no run to review; start one with `execlink run`")
					}
					return fmt.Errorf("review: %w", err)
				}
				printSummary(cmd, summary)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run identifier (defaults to the most recent run)")
	return cmd
}
