package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
)

// NewMoveCmd creates the move command. The target is either a
// materialized path (the exact destination) or a node reference (the
// new parent, appended under).
func NewMoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <node> <target>",
		Short: "Move a node and its subtree",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			nodeRef, err := domain.ParseRef(args[0])
			if err != nil {
				return err
			}
			targetRef, err := domain.ParseRef(args[1])
			if err != nil {
				return err
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Move(cmd.Context(), nodeRef, targetRef)
			if err != nil {
				return err
			}

			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Moved %s from %s to %s\n", result.ID, result.OldMP, result.NewMP)
			return nil
		},
	}
	return cmd
}
