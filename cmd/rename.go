package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
)

// NewRenameCmd creates the rename command.
func NewRenameCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rename <node> <new-title>",
		Short: "Change a node's title and slug",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref, err := domain.ParseRef(args[0])
			if err != nil {
				return err
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Rename(cmd.Context(), ref, args[1])
			if err != nil {
				return err
			}

			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s: %q -> %q\n", result.ID, result.OldTitle, result.NewTitle)
			return nil
		},
	}
	return cmd
}
