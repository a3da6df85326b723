package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
)

func newRecentCommand(ctx *commandContext) *cobra.Command {
	recentCmd := &cobra.Command{
		Use:   "recent",
		Short: "Recently opened projects",
	}

	recentCmd.AddCommand(newRecentListCommand(ctx))
	recentCmd.AddCommand(newRecentClearCommand(ctx))

	return recentCmd
}

func newRecentListCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recently opened projects, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				recents, err := store.Recent(cmd.Context(), limit)
				if err != nil {
					return err
				}
				rows := make([][]string, 0, len(recents))
				for _, r := range recents {
					rows = append(rows, []string{r.Name, r.Path, r.LastAccessed})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Project", "Path", "Last opened"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Maximum entries (defaults to the cache size)")
	return cmd
}

func newRecentClearCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Drop cache entries not opened recently",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				removed, err := store.ClearOlderThan(cmd.Context(), days)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Drop entries older than this many days")
	return cmd
}
