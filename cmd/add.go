package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/outline"
)

// NewAddCmd creates the add command.
func NewAddCmd(app *App) *cobra.Command {
	var childOf string
	var siblingOf string
	var before bool
	var after bool

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a new node to the outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if childOf != "" && siblingOf != "" {
				return fmt.Errorf("--child-of and --sibling-of are mutually exclusive")
			}
			if before && after {
				return fmt.Errorf("--before and --after are mutually exclusive")
			}
			if (before || after) && siblingOf == "" {
				return fmt.Errorf("--before and --after require --sibling-of")
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Add(cmd.Context(), args[0], outline.Placement{
				ChildOf:   childOf,
				SiblingOf: siblingOf,
				Before:    before,
			})
			if err != nil {
				return err
			}

			if app.JSON {
				writeJSON(cmd.OutOrStdout(), result)
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s at %s (%s)\n", result.Slug, result.MP, result.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&childOf, "child-of", "", "Add as last child of the given node")
	cmd.Flags().StringVar(&siblingOf, "sibling-of", "", "Insert next to the given node")
	cmd.Flags().BoolVar(&before, "before", false, "With --sibling-of, insert before instead of after")
	cmd.Flags().BoolVar(&after, "after", false, "With --sibling-of, insert after (the default)")

	return cmd
}
