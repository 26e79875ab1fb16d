package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/config"
	"github.com/eykd/linemark/internal/domain"
)

// NewCompileCmd creates the compile command.
func NewCompileCmd(app *App) *cobra.Command {
	var subtree string
	var separator string

	cmd := &cobra.Command{
		Use:   "compile <doctype>",
		Short: "Concatenate one doctype's bodies across the outline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var ref *domain.Ref
			if subtree != "" {
				parsed, err := domain.ParseRef(subtree)
				if err != nil {
					return err
				}
				ref = &parsed
			}

			sep := separator
			if !cmd.Flags().Changed("separator") {
				cfg, err := app.Config()
				if err != nil {
					return err
				}
				sep = cfg.SeparatorOrDefault()
			}

			svc, err := app.Service()
			if err != nil {
				return err
			}
			out, err := svc.Compile(cmd.Context(), args[0], ref, sep)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVar(&subtree, "subtree", "", "Restrict to the subtree rooted at this node")
	cmd.Flags().StringVar(&separator, "separator", config.DefaultSeparator, "Separator between bodies")

	return cmd
}
