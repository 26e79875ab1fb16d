package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/outline"
)

// NewSearchCmd creates the search command.
func NewSearchCmd(app *App) *cobra.Command {
	var subtree string
	var doctypes []string
	var caseSensitive bool
	var dotall bool
	var literal bool

	cmd := &cobra.Command{
		Use:   "search <pattern>",
		Short: "Search document bodies across the outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := outline.SearchQuery{
				Pattern:       args[0],
				Doctypes:      doctypes,
				CaseSensitive: caseSensitive,
				DotAll:        dotall,
				Literal:       literal,
			}
			if subtree != "" {
				ref, err := domain.ParseRef(subtree)
				if err != nil {
					return err
				}
				query.Subtree = &ref
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			return svc.Search(cmd.Context(), query, func(m outline.Match) error {
				if app.JSON {
					writeJSON(out, m)
					return nil
				}
				_, err := fmt.Fprintf(out, "%s %s %s:%d: %s\n",
					dimText(m.MP), m.ID, m.Doctype, m.Line, m.Text)
				return err
			})
		},
	}

	cmd.Flags().StringVar(&subtree, "subtree", "", "Restrict to the subtree rooted at this node or path prefix")
	cmd.Flags().StringSliceVar(&doctypes, "type", nil, "Restrict to these doctypes (glob patterns allowed; repeatable)")
	cmd.Flags().BoolVar(&caseSensitive, "case-sensitive", false, "Match case-sensitively")
	cmd.Flags().BoolVar(&dotall, "dotall", false, "Let . match newlines")
	cmd.Flags().BoolVar(&literal, "literal", false, "Treat the pattern as a literal string")

	return cmd
}
