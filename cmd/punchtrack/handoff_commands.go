package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
	"punchtrack/internal/handoff"
	"punchtrack/internal/punch"
)

func newHandoffCommand(ctx *commandContext) *cobra.Command {
	handoffCmd := &cobra.Command{
		Use:   "handoff",
		Short: "Move cabinets through the Quality↔Production queues",
	}

	handoffCmd.AddCommand(newHandoffSubmitCommand(ctx))
	handoffCmd.AddCommand(newHandoffReceiveCommand(ctx))
	handoffCmd.AddCommand(newHandoffCompleteCommand(ctx))
	handoffCmd.AddCommand(newHandoffVerifyCommand(ctx))
	handoffCmd.AddCommand(newHandoffWithdrawCommand(ctx))
	handoffCmd.AddCommand(newHandoffListCommand(ctx))
	handoffCmd.AddCommand(newHandoffCleanupCommand(ctx))

	return handoffCmd
}

func newHandoffSubmitCommand(ctx *commandContext) *cobra.Command {
	var project, cabinetNo, excelPath, pdfPath, remarks string

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Hand a cabinet with open punches to production",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				punchCount := 0
				if excelPath != "" {
					err := ctx.withPunchSheet(excelPath, false, func(punches *punch.Store) error {
						counts, err := punches.Count()
						if err != nil {
							return err
						}
						punchCount = counts.OpenCount()
						return nil
					})
					if err != nil {
						return err
					}
				}

				pending, err := store.HandbackPending(cmd.Context(), cabinetNo)
				if err != nil {
					return err
				}
				if pending {
					return fmt.Errorf("cabinet %s is still awaiting verification", cabinetNo)
				}

				ok, err := store.SubmitForward(cmd.Context(), handoff.Submission{
					ProjectName: project,
					CabinetNo:   cabinetNo,
					ExcelPath:   excelPath,
					PDFPath:     pdfPath,
					PunchCount:  punchCount,
					SubmittedBy: ctx.actor(),
					Remarks:     remarks,
				})
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("cabinet %s already has an active submission", cabinetNo)
				}
				if err := ctx.noteCabinetStatus(cmd.Context(), project, cabinetNo, cabinet.StatusHandedToProduction); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Submitted %s with %d open punches\n", cabinetNo, punchCount)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&project, "project", "p", "", "Project name")
	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	cmd.Flags().StringVarP(&excelPath, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Cabinet drawing path")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Submission remarks")
	_ = cmd.MarkFlagRequired("project")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newHandoffReceiveCommand(ctx *commandContext) *cobra.Command {
	var cabinetNo string

	cmd := &cobra.Command{
		Use:   "receive",
		Short: "Claim a pending submission for rework",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				ok, err := store.Receive(cmd.Context(), cabinetNo, ctx.actor())
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no pending submission for cabinet %s", cabinetNo)
				}
				item, err := store.GetForward(cmd.Context(), cabinetNo)
				if err != nil {
					return err
				}
				if err := ctx.noteCabinetStatus(cmd.Context(), item.ProjectName, cabinetNo, cabinet.StatusInProgress); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cabinet %s received\n", cabinetNo)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newHandoffCompleteCommand(ctx *commandContext) *cobra.Command {
	var cabinetNo, remarks string
	var openPunches int

	cmd := &cobra.Command{
		Use:   "complete",
		Short: "Finish rework and hand the cabinet back to quality",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				ok, err := store.CompleteAndHandback(cmd.Context(), cabinetNo, ctx.actor(), remarks, openPunches)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no active submission for cabinet %s", cabinetNo)
				}
				item, err := store.GetForward(cmd.Context(), cabinetNo)
				if err != nil {
					return err
				}
				if err := ctx.noteCabinetStatus(cmd.Context(), item.ProjectName, cabinetNo, cabinet.StatusBeingClosedByQuality); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cabinet %s handed back for verification\n", cabinetNo)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	cmd.Flags().StringVar(&remarks, "remarks", "", "Handback remarks")
	cmd.Flags().IntVar(&openPunches, "open-punches", 0, "Punches still open after rework")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newHandoffVerifyCommand(ctx *commandContext) *cobra.Command {
	var cabinetNo, notes string
	var asClosed bool

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a handed-back cabinet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				ok, err := store.Verify(cmd.Context(), cabinetNo, ctx.actor(), notes, asClosed)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no pending handback for cabinet %s", cabinetNo)
				}
				if asClosed {
					hb, err := store.GetHandback(cmd.Context(), cabinetNo)
					if err != nil {
						return err
					}
					if err := ctx.noteCabinetStatus(cmd.Context(), hb.ProjectName, cabinetNo, cabinet.StatusClosed); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cabinet %s verified\n", cabinetNo)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	cmd.Flags().StringVar(&notes, "notes", "", "Verification notes")
	cmd.Flags().BoolVar(&asClosed, "close", false, "Also close the punches")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newHandoffWithdrawCommand(ctx *commandContext) *cobra.Command {
	var cabinetNo, reason string

	cmd := &cobra.Command{
		Use:   "withdraw",
		Short: "Pull a handback out of verification for another rework round",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				ok, err := store.Withdraw(cmd.Context(), cabinetNo, ctx.actor(), reason)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("no pending handback for cabinet %s", cabinetNo)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Cabinet %s withdrawn\n", cabinetNo)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&cabinetNo, "cabinet", "", "Cabinet number")
	cmd.Flags().StringVar(&reason, "reason", "", "Why the cabinet goes back to rework")
	_ = cmd.MarkFlagRequired("cabinet")
	return cmd
}

func newHandoffListCommand(ctx *commandContext) *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List pending queue entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				out := cmd.OutOrStdout()
				if direction == "forward" || direction == "both" {
					items, err := store.ListPendingForward(cmd.Context())
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(items))
					for _, item := range items {
						rows = append(rows, []string{
							item.CabinetNo, item.ProjectName,
							strconv.Itoa(item.PunchCount),
							item.SubmittedBy, item.SubmittedDate, item.Status,
						})
					}
					fmt.Fprintln(out, "To production:")
					fmt.Fprintln(out, renderTable(
						[]string{"Cabinet", "Project", "Punches", "Submitted by", "Submitted", "Status"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft, alignLeft},
					))
				}
				if direction == "backward" || direction == "both" {
					items, err := store.ListPendingBackward(cmd.Context())
					if err != nil {
						return err
					}
					rows := make([][]string, 0, len(items))
					for _, item := range items {
						rows = append(rows, []string{
							item.CabinetNo, item.ProjectName,
							strconv.Itoa(item.PunchCount),
							item.HandedBackBy, item.HandedBackDate,
						})
					}
					fmt.Fprintln(out, "Awaiting verification:")
					fmt.Fprintln(out, renderTable(
						[]string{"Cabinet", "Project", "Open punches", "Handed back by", "Handed back"},
						rows,
						[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft, alignLeft},
					))
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&direction, "direction", "both", "Queue to list: forward, backward or both")
	return cmd
}

func newHandoffCleanupCommand(ctx *commandContext) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup",
		Short: "Delete settled queue entries past the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withHandoff(func(store *handoff.Store) error {
				if days <= 0 {
					cfg, err := ctx.ensureConfig()
					if err != nil {
						return err
					}
					days = cfg.Handoff.CleanupDays
				}
				removed, err := store.CleanupCompleted(cmd.Context(), days)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d settled entries\n", removed)
				return nil
			})
		},
	}

	cmd.Flags().IntVar(&days, "days", 0, "Retention in days (defaults to the configured window)")
	return cmd
}
