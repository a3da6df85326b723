package main

import (
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"punchtrack/internal/annotate"
	"punchtrack/internal/cabinet"
	"punchtrack/internal/checklist"
	"punchtrack/internal/punch"
	"punchtrack/internal/workbook"
)

func newCabinetCommand(ctx *commandContext) *cobra.Command {
	cabinetCmd := &cobra.Command{
		Use:   "cabinet",
		Short: "Inspect and refresh the cross-cabinet aggregate",
	}

	cabinetCmd.AddCommand(newCabinetSyncCommand(ctx))
	cabinetCmd.AddCommand(newCabinetShowCommand(ctx))
	cabinetCmd.AddCommand(newCabinetListCommand(ctx))
	cabinetCmd.AddCommand(newCabinetSearchCommand(ctx))

	return cabinetCmd
}

func newCabinetSyncCommand(ctx *commandContext) *cobra.Command {
	var project, cabinetNo, file, salesOrder, sessionPath string

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Recompute a cabinet's aggregate row from its workbook",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			wb, err := workbook.Open(file)
			if err != nil {
				return err
			}
			defer wb.Close()

			punches, err := punch.NewStore(wb, punch.LayoutFromConfig(cfg))
			if err != nil {
				return err
			}
			sheet, err := checklist.NewSheet(wb, checklist.LayoutFromConfig(cfg))
			if err != nil {
				return err
			}
			var session *annotate.Session
			if sessionPath != "" {
				if session, err = annotate.LoadSession(sessionPath); err != nil {
					return err
				}
			}

			return ctx.withCabinets(func(store *cabinet.Store) error {
				in := cabinet.SyncInput{
					ProjectName: project,
					CabinetNo:   cabinetNo,
					SalesOrder:  salesOrder,
					ExcelPath:   file,
					Punches:     punches,
					Checklist:   sheet,
					Session:     session,
				}
				if err := store.Sync(cmd.Context(), in); err != nil {
					return err
				}
				if err := store.Touch(cmd.Context(), project, filepath.Dir(file)); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced %s/%s\n", project, cabinetNo)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().StringVar(&salesOrder, "sales-order", "", "Sales order number")
	cmd.Flags().StringVar(&sessionPath, "session", "", "Annotation session for page figures")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("cabinet")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newCabinetShowCommand(ctx *commandContext) *cobra.Command {
	var project, cabinetNo string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show one cabinet's aggregate row",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				c, err := store.Get(cmd.Context(), project, cabinetNo)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project:     %s\n", c.ProjectName)
				fmt.Fprintf(out, "Cabinet:     %s\n", c.CabinetNo)
				fmt.Fprintf(out, "Sales order: %s\n", c.SalesOrder)
				fmt.Fprintf(out, "Status:      %s\n", c.Status)
				fmt.Fprintf(out, "Punches:     %d total, %d open, %d implemented, %d closed\n",
					c.TotalPunches, c.OpenPunches, c.ImplementedPunches, c.ClosedPunches)
				if c.TotalPages > 0 {
					fmt.Fprintf(out, "Pages:       %d annotated of %d\n", c.AnnotatedPages, c.TotalPages)
				}
				fmt.Fprintf(out, "Workbook:    %s\n", c.ExcelPath)
				fmt.Fprintf(out, "Updated:     %s\n", c.LastUpdated)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newCabinetListCommand(ctx *commandContext) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List a project's cabinets",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				cabinets, err := store.ListByProject(cmd.Context(), project)
				if err != nil {
					return err
				}
				printCabinetTable(cmd, cabinets)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newCabinetSearchCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search cabinets by project, number or sales order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				cabinets, err := store.Search(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				printCabinetTable(cmd, cabinets)
				return nil
			})
		},
	}
	return cmd
}

func printCabinetTable(cmd *cobra.Command, cabinets []cabinet.Cabinet) {
	rows := make([][]string, 0, len(cabinets))
	for _, c := range cabinets {
		rows = append(rows, []string{
			c.ProjectName, c.CabinetNo, c.Status,
			strconv.Itoa(c.TotalPunches), strconv.Itoa(c.OpenPunches),
			filepath.Base(c.ExcelPath),
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), renderTable(
		[]string{"Project", "Cabinet", "Status", "Punches", "Open", "Workbook"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	))
}
