package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
	"punchtrack/internal/category"
	"punchtrack/internal/checklist"
	"punchtrack/internal/config"
	"punchtrack/internal/faults"
	"punchtrack/internal/punch"
	"punchtrack/internal/workbook"
)

func newPunchCommand(ctx *commandContext) *cobra.Command {
	punchCmd := &cobra.Command{
		Use:   "punch",
		Short: "Log and update punch items in a cabinet workbook",
	}

	punchCmd.AddCommand(newPunchAddCommand(ctx))
	punchCmd.AddCommand(newPunchListCommand(ctx))
	punchCmd.AddCommand(newPunchImplementCommand(ctx))
	punchCmd.AddCommand(newPunchCloseCommand(ctx))
	punchCmd.AddCommand(newPunchCountCommand(ctx))

	return punchCmd
}

func newPunchAddCommand(ctx *commandContext) *cobra.Command {
	var file, ref, description, categoryName, project, cabinetNo string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a punch item to the punch sheet",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			canonical, err := resolveCategory(cfg, categoryName)
			if err != nil {
				return err
			}

			wb, err := workbook.Open(file)
			if err != nil {
				return err
			}
			defer wb.Close()

			store, err := punch.NewStore(wb, punch.LayoutFromConfig(cfg))
			if err != nil {
				return err
			}
			actor := ctx.actor()
			row, serial, err := store.Append(punch.Entry{
				ReferenceNo: ref,
				Description: description,
				Category:    canonical,
				CheckedBy:   actor,
				CheckedAt:   time.Now(),
			})
			if err != nil {
				return err
			}
			if ref != "" {
				sheet, err := checklist.NewSheet(wb, checklist.LayoutFromConfig(cfg))
				if err != nil {
					return err
				}
				err = sheet.MarkRef(ref, "NOK", actor, time.Now(), fmt.Sprintf("punch %d", serial))
				if err != nil && !errors.Is(err, faults.ErrNotFound) {
					return err
				}
			}
			if err := wb.SaveWithBackup(); err != nil {
				return err
			}

			if project != "" {
				err := ctx.withCabinets(func(agg *cabinet.Store) error {
					if canonical != "" {
						err := agg.LogCategoryOccurrence(cmd.Context(), project, cabinetNo, canonical, actor)
						if err != nil {
							return err
						}
					}
					return agg.Touch(cmd.Context(), project, filepath.Dir(file))
				})
				if err != nil {
					return err
				}
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Logged punch %d at row %d\n", serial, row)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().StringVar(&ref, "ref", "", "Checklist reference the punch belongs to")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Punch description")
	cmd.Flags().StringVar(&categoryName, "category", "", "Punch category (validated against the catalog when configured)")
	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name for the aggregate and statistics")
	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number for the statistics")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("description")
	return cmd
}

// resolveCategory validates a category name against the configured catalog,
// descending slash-separated paths. Without a configured catalog the name
// passes through unchanged.
func resolveCategory(cfg *config.Config, name string) (string, error) {
	if name == "" || cfg.Paths.CategoryFile == "" {
		return name, nil
	}
	catalog, err := category.Load(cfg.Paths.CategoryFile)
	if err != nil {
		return "", err
	}
	cat, ok := catalog.Resolve(name)
	if !ok {
		return "", fmt.Errorf("unknown category %q, expected one of %v", name, catalog.Names())
	}
	return cat.Name, nil
}

func newPunchListCommand(ctx *commandContext) *cobra.Command {
	var file string
	var openOnly bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List punch items",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPunchSheet(file, false, func(store *punch.Store) error {
				var (
					records []punch.Record
					err     error
				)
				if openOnly {
					records, err = store.ListOpen()
				} else {
					records, err = store.Records()
				}
				if err != nil {
					return err
				}
				punch.SortNotImplementedFirst(records)

				rows := make([][]string, 0, len(records))
				for _, rec := range records {
					rows = append(rows, []string{
						strconv.Itoa(rec.SerialNo),
						rec.ReferenceNo,
						rec.Description,
						rec.Category,
						punchState(rec),
					})
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTable(
					[]string{"No", "Ref", "Description", "Category", "State"},
					rows,
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
				))
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().BoolVar(&openOnly, "open", false, "Only punches that are not closed")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func punchState(rec punch.Record) string {
	switch {
	case !rec.Open():
		return "closed"
	case rec.Implemented():
		return "implemented"
	default:
		return "open"
	}
}

func newPunchImplementCommand(ctx *commandContext) *cobra.Command {
	return newPunchMarkCommand(ctx, "implement", "Mark a punch implemented by production",
		func(store *punch.Store, row int, actor string) error {
			return store.MarkImplemented(row, actor, time.Now())
		})
}

func newPunchCloseCommand(ctx *commandContext) *cobra.Command {
	return newPunchMarkCommand(ctx, "close", "Close a punch after quality verification",
		func(store *punch.Store, row int, actor string) error {
			return store.MarkClosed(row, actor, time.Now())
		})
}

func newPunchMarkCommand(ctx *commandContext, use, short string, mark func(*punch.Store, int, string) error) *cobra.Command {
	var file string
	var serial int

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPunchSheet(file, true, func(store *punch.Store) error {
				rec, ok, err := store.FindBySerial(serial)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no punch with serial %d", serial)
				}
				if err := mark(store, rec.Row, ctx.actor()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Punch %d updated\n", serial)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().IntVarP(&serial, "serial", "n", 0, "Punch serial number")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("serial")
	return cmd
}

func newPunchCountCommand(ctx *commandContext) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "count",
		Short: "Show punch totals for a workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withPunchSheet(file, false, func(store *punch.Store) error {
				counts, err := store.Count()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Total:       %d\n", counts.Total)
				fmt.Fprintf(out, "Open:        %d\n", counts.OpenCount())
				fmt.Fprintf(out, "Implemented: %d\n", counts.Implemented)
				fmt.Fprintf(out, "Closed:      %d\n", counts.Closed)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
