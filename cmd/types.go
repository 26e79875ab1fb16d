package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
)

// NewTypesCmd creates the types command group: list, add, remove,
// read, and write.
func NewTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "Manage a node's document types",
	}
	cmd.AddCommand(newTypesListCmd(app))
	cmd.AddCommand(newTypesAddCmd(app))
	cmd.AddCommand(newTypesRemoveCmd(app))
	cmd.AddCommand(newTypesReadCmd(app))
	cmd.AddCommand(newTypesWriteCmd(app))
	return cmd
}

func newTypesListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list <node>",
		Short: "List the doctypes attached to a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[0])
			if err != nil {
				return err
			}
			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.ListTypes(cmd.Context(), ref)
			if err != nil {
				return err
			}
			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			for _, d := range result.Doctypes {
				fmt.Fprintln(cmd.OutOrStdout(), d)
			}
			return nil
		},
	}
}

func newTypesAddCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <doctype> <node>",
		Short: "Attach a new doctype file to a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[1])
			if err != nil {
				return err
			}
			svc, err := app.Service()
			if err != nil {
				return err
			}
			name, err := svc.AddType(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", name)
			return nil
		},
	}
}

func newTypesRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <doctype> <node>",
		Short: "Detach a doctype file from a node",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[1])
			if err != nil {
				return err
			}
			svc, err := app.Service()
			if err != nil {
				return err
			}
			name, err := svc.RemoveType(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", name)
			return nil
		},
	}
}

func newTypesReadCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "read <doctype> <node>",
		Short: "Print the body of a node's doctype file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[1])
			if err != nil {
				return err
			}
			svc, err := app.Service()
			if err != nil {
				return err
			}
			body, err := svc.ReadType(cmd.Context(), ref, args[0])
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), body)
			if body != "" && !strings.HasSuffix(body, "\n") {
				fmt.Fprintln(cmd.OutOrStdout())
			}
			return nil
		},
	}
}

func newTypesWriteCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "write <doctype> <node>",
		Short: "Replace the body of a node's doctype file from stdin",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[1])
			if err != nil {
				return err
			}
			body, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return err
			}
			svc, err := app.Service()
			if err != nil {
				return err
			}
			name, err := svc.WriteType(cmd.Context(), ref, args[0], string(body))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", name)
			return nil
		},
	}
}
