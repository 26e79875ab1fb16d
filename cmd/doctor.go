package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/eykd/linemark/internal/domain"
	"github.com/eykd/linemark/internal/outline"
)

// NewDoctorCmd creates the doctor command.
func NewDoctorCmd(app *App) *cobra.Command {
	var repair bool
	var format string

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the outline and optionally repair it",
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := app.Service()
			if err != nil {
				return err
			}
			result, err := svc.Doctor(cmd.Context(), repair)
			if err != nil {
				return err
			}

			if app.JSON {
				format = formatJSON
			}
			if format != formatText {
				if err := writeStructured(cmd.OutOrStdout(), format, result); err != nil {
					return err
				}
			} else {
				renderDoctor(cmd.OutOrStdout(), result)
			}

			if !result.Valid {
				return &InvalidOutlineError{Count: len(result.Findings)}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&repair, "repair", false, "Create missing required doctype files")
	cmd.Flags().StringVar(&format, "format", formatText, "Output format: text, json, or yaml")

	return cmd
}

// renderDoctor writes the human-readable report.
func renderDoctor(w io.Writer, result *outline.DoctorResult) {
	for _, r := range result.Repairs {
		fmt.Fprintf(w, "Repaired %s: created %s\n", r.Class, r.Name)
	}
	for _, f := range result.Findings {
		severity := string(f.Severity)
		if f.Severity == domain.SeverityError {
			severity = errText(severity)
		} else {
			severity = warnText(severity)
		}
		fmt.Fprintf(w, "%s [%s] %s\n", severity, f.Class, f.Message)
	}
	if result.Valid {
		fmt.Fprintln(w, "Outline is valid")
	} else {
		fmt.Fprintf(w, "Outline is invalid: %d finding(s)\n", len(result.Findings))
	}
}
