package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"execlink/internal/config"
	"execlink/internal/pipeline"
	"execlink/internal/store"
)

const summaryDurationUnit = time.Second

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var runID string

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the state of the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				var run *store.Run
				var err error
				if runID == "" {
					run, err = st.LatestRun(cmd.Context())
				} else {
					run, err = st.RunByID(cmd.Context(), runID)
				}
				if err != nil {
					return err
				}
				if run == nil {
					return pipeline.ErrNoRun
				}

				counts, err := st.Counts(cmd.Context(), run.ID)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Run %s (%s)\n", run.ID, run.Status)
				fmt.Fprintf(out, "Created %s, updated %s\n",
					run.CreatedAt.Local().Format(time.RFC3339),
					run.UpdatedAt.Local().Format(time.RFC3339))
				if run.ErrorMessage != "" {
					fmt.Fprintf(out, "Error: %s\n", run.ErrorMessage)
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Records", "Groups", "Pending", "Confirmed", "Rejected", "Auto", "Single"},
					[][]string{{
						fmt.Sprintf("%d", run.RecordCount),
						fmt.Sprintf("%d", counts.Total),
						fmt.Sprintf("%d", counts.Pending),
						fmt.Sprintf("%d", counts.Confirmed),
						fmt.Sprintf("%d", counts.Rejected),
						fmt.Sprintf("%d", counts.AutoApproved),
						fmt.Sprintf("%d", counts.NoGroup),
					}},
					[]columnAlignment{alignRight, alignRight, alignRight, alignRight, alignRight, alignRight, alignRight},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&runID, "run", "", "Run identifier (defaults to the most recent run)")
	return cmd
}
