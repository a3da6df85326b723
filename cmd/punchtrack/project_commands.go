package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"punchtrack/internal/cabinet"
)

func newProjectCommand(ctx *commandContext) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Maintain the project registry",
	}

	projectCmd.AddCommand(newProjectAddCommand(ctx))
	projectCmd.AddCommand(newProjectUpdateCommand(ctx))
	projectCmd.AddCommand(newProjectShowCommand(ctx))

	return projectCmd
}

func newProjectAddCommand(ctx *commandContext) *cobra.Command {
	var name, salesOrder, storage string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				err := store.AddProject(cmd.Context(), cabinet.Project{
					Name:            name,
					SalesOrder:      salesOrder,
					StorageLocation: storage,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered project %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "p", "", "Project name")
	cmd.Flags().StringVar(&salesOrder, "sales-order", "", "Sales order number")
	cmd.Flags().StringVar(&storage, "storage", "", "Storage location")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectUpdateCommand(ctx *commandContext) *cobra.Command {
	var name, salesOrder, storage string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Update a registered project",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				err := store.UpdateProject(cmd.Context(), cabinet.Project{
					Name:            name,
					SalesOrder:      salesOrder,
					StorageLocation: storage,
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated project %s\n", name)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&name, "name", "p", "", "Project name")
	cmd.Flags().StringVar(&salesOrder, "sales-order", "", "Sales order number")
	cmd.Flags().StringVar(&storage, "storage", "", "Storage location")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectShowCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <name>",
		Short: "Show a registered project and its cabinets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withCabinets(func(store *cabinet.Store) error {
				p, err := store.GetProject(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Project:     %s\n", p.Name)
				fmt.Fprintf(out, "Sales order: %s\n", p.SalesOrder)
				fmt.Fprintf(out, "Storage:     %s\n", p.StorageLocation)
				fmt.Fprintf(out, "Created:     %s\n", p.CreatedDate)

				cabinets, err := store.ListByProject(cmd.Context(), p.Name)
				if err != nil {
					return err
				}
				if len(cabinets) > 0 {
					fmt.Fprintln(out)
					printCabinetTable(cmd, cabinets)
				}
				return nil
			})
		},
	}
	return cmd
}
