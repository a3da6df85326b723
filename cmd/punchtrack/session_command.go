package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"punchtrack/internal/annotate"
	"punchtrack/internal/logging"
	"punchtrack/internal/punch"
)

func newSessionCommand(ctx *commandContext) *cobra.Command {
	sessionCmd := &cobra.Command{
		Use:   "session",
		Short: "Inspect saved annotation sessions",
	}

	sessionCmd.AddCommand(newSessionShowCommand())
	sessionCmd.AddCommand(newSessionBindCommand(ctx))

	return sessionCmd
}

func newSessionBindCommand(ctx *commandContext) *cobra.Command {
	var sessionPath, file, matcherName string

	cmd := &cobra.Command{
		Use:   "bind",
		Short: "Link unbound session annotations to punch rows",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			var matcher annotate.Matcher
			switch matcherName {
			case "ratio", "":
				matcher = annotate.RatioMatcher{}
			case "token":
				matcher = annotate.TokenMatcher{}
			default:
				return fmt.Errorf("unknown matcher %q, expected ratio or token", matcherName)
			}

			s, err := annotate.LoadSession(sessionPath)
			if err != nil {
				return err
			}
			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return err
			}
			binder := annotate.NewBinder(matcher, cfg.Matching.Threshold, logger)

			var bound int
			err = ctx.withPunchSheet(file, false, func(store *punch.Store) error {
				records, err := store.Records()
				if err != nil {
					return err
				}
				bound = binder.BindAll(s, records)
				return nil
			})
			if err != nil {
				return err
			}
			if err := s.Save(sessionPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Bound %d annotations\n", bound)
			return nil
		},
	}

	cmd.Flags().StringVar(&sessionPath, "session", "", "Session document path")
	cmd.Flags().StringVarP(&file, "file", "f", "", "Cabinet workbook path")
	cmd.Flags().StringVar(&matcherName, "matcher", "ratio", "Similarity matcher: ratio or token")
	_ = cmd.MarkFlagRequired("session")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newSessionShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:         "show <session-file>",
		Short:       "Summarize a session document",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := annotate.LoadSession(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Project:     %s\n", s.Project)
			fmt.Fprintf(out, "Sales order: %s\n", s.SalesOrder)
			fmt.Fprintf(out, "Cabinet:     %s\n", s.CabinetNo)
			fmt.Fprintf(out, "Drawing:     %s (%d pages)\n", s.PDFPath, s.PageCount)
			fmt.Fprintf(out, "Saved:       %s\n", s.SavedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out)

			rows := make([][]string, 0, len(s.Annotations))
			for _, a := range s.Annotations {
				bound := ""
				if a.Bound() {
					bound = strconv.Itoa(a.SerialNo)
				}
				rows = append(rows, []string{
					strconv.Itoa(a.Page + 1),
					string(a.Kind),
					string(a.Severity),
					bound,
					a.MatchText(),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Page", "Kind", "Severity", "Punch", "Text"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
