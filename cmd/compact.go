package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
)

// NewCompactCmd creates the compact command.
func NewCompactCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compact [node]",
		Short: "Renumber one sibling level to restore insertion headroom",
		Long:  "Renumber the children of the given node (or the root level) to evenly\nspaced positions at the widest tier that fits, cascading the new paths\ninto every descendant filename.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref *domain.Ref
			if len(args) == 1 {
				parsed, err := domain.ParseRef(args[0])
				if err != nil {
					return err
				}
				ref = &parsed
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Compact(cmd.Context(), ref)
			if err != nil {
				return err
			}

			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Compacted %d sibling(s), %d file(s) renamed\n", result.Siblings, result.Renamed)
			return nil
		},
	}
	return cmd
}
