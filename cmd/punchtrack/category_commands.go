package main

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
	"punchtrack/internal/category"
)

func newCategoryCommand(ctx *commandContext) *cobra.Command {
	categoryCmd := &cobra.Command{
		Use:   "category",
		Short: "Browse the punch category catalog and its statistics",
	}

	categoryCmd.AddCommand(newCategoryListCommand(ctx))
	categoryCmd.AddCommand(newCategoryStatsCommand(ctx))

	return categoryCmd
}

func newCategoryListCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List top-level catalog categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := file
			if path == "" {
				cfg, err := ctx.ensureConfig()
				if err != nil {
					return err
				}
				path = cfg.Paths.CategoryFile
			}
			if path == "" {
				return fmt.Errorf("no category file configured, pass --file or set paths.category_file")
			}
			catalog, err := category.Load(path)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range catalog.Names() {
				cat, _ := catalog.Resolve(name)
				fmt.Fprintf(out, "%s (%s)\n", name, cat.Kind)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Catalog path (defaults to the configured one)")
	return cmd
}

func newCategoryStatsCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show how often each category was logged",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				counts, err := store.CategoryCounts(cmd.Context())
				if err != nil {
					return err
				}
				names := make([]string, 0, len(counts))
				for name := range counts {
					names = append(names, name)
				}
				sort.Slice(names, func(i, j int) bool {
					if counts[names[i]] != counts[names[j]] {
						return counts[names[i]] > counts[names[j]]
					}
					return names[i] < names[j]
				})

				rows := make([][]string, 0, len(names))
				for _, name := range names {
					rows = append(rows, []string{name, strconv.Itoa(counts[name])})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"Category", "Logged"},
					rows,
					[]columnAlignment{alignLeft, alignRight},
				))
				return nil
			})
		},
	}
	return cmd
}
