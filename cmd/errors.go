package cmd

import (
	"errors"
	"fmt"
)

// FormatError renders the one-line error message printed to stderr.
func FormatError(err error) string {
	return fmt.Sprintf("Error: %s\n", err.Error())
}

// ExitCoder is implemented by errors that carry a specific process
// exit code.
type ExitCoder interface {
	ExitCode() int
}

// ExitCodeFromError maps an error to the process exit code: 0 for nil,
// the carried code for ExitCoder errors (filesystem failures use 2),
// and 1 for everything else, which covers the domain errors.
func ExitCodeFromError(err error) int {
	if err == nil {
		return 0
	}
	var coder ExitCoder
	if errors.As(err, &coder) {
		return coder.ExitCode()
	}
	return 1
}

// InvalidOutlineError is returned by doctor when violations remain.
type InvalidOutlineError struct {
	Count int
}

// Error implements the error interface.
func (e *InvalidOutlineError) Error() string {
	return fmt.Sprintf("outline is invalid: %d finding(s)", e.Count)
}
