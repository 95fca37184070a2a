package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"execlink/internal/config"
	"execlink/internal/store"
)

func newClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all stored runs and review decisions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(cfg *config.Config, st *store.Store) error {
				if err := st.Clear(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Run database cleared")
				return nil
			})
		},
	}
}
