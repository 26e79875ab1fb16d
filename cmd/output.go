package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by the --format flag.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// writeJSON encodes v as JSON to w, reporting encoder failures inline.
func writeJSON(w io.Writer, v interface{}) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "{\"error\":%q}\n", err.Error())
	}
}

// writeYAML encodes v as YAML to w.
func writeYAML(w io.Writer, v interface{}) {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(w, "error: %q\n", err.Error())
	}
}

// writeStructured dispatches on the requested format.
func writeStructured(w io.Writer, format string, v interface{}) error {
	switch format {
	case formatJSON:
		writeJSON(w, v)
	case formatYAML:
		writeYAML(w, v)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
	return nil
}

// configureColor disables colored output when stdout is not a
// terminal, so piped output stays clean.
func configureColor() {
	if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
		color.NoColor = true
	}
}

var (
	dimText  = color.New(color.Faint).SprintFunc()
	errText  = color.New(color.FgRed).SprintFunc()
	warnText = color.New(color.FgYellow).SprintFunc()
)
