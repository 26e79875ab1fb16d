package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
)

// NewDeleteCmd creates the delete command.
func NewDeleteCmd(app *App) *cobra.Command {
	var recursive bool
	var promote bool

	cmd := &cobra.Command{
		Use:   "delete <node>",
		Short: "Delete a node",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if recursive && promote {
				return fmt.Errorf("--recursive and --promote are mutually exclusive")
			}
			mode := domain.DeleteLeaf
			if recursive {
				mode = domain.DeleteRecursive
			}
			if promote {
				mode = domain.DeletePromote
			}

			ref, err := domain.ParseRef(args[0])
			if err != nil {
				return err
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Delete(cmd.Context(), ref, mode)
			if err != nil {
				return err
			}

			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d node(s): %s\n",
				len(result.DeletedIDs), strings.Join(result.DeletedIDs, ", "))
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", false, "Delete the node and its entire subtree")
	cmd.Flags().BoolVar(&promote, "promote", false, "Delete the node and promote its children")

	return cmd
}
