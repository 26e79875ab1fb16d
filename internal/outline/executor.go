package outline

import (
	"context"
	"fmt"

	"github.com/eykd/linemark/internal/domain"
)

// IOError wraps a filesystem failure, recording which plan step broke.
// Steps already applied stay in place; the validator can reconcile the
// intermediate state.
type IOError struct {
	Step int
	Op   domain.Op
	Err  error
}

// Error describes the failed step.
func (e *IOError) Error() string {
	if e.Op.Name == "" {
		return e.Err.Error()
	}
	switch e.Op.Kind {
	case domain.OpRename:
		return fmt.Sprintf("step %d: rename %s -> %s: %v", e.Step, e.Op.Name, e.Op.NewName, e.Err)
	case domain.OpDelete:
		return fmt.Sprintf("step %d: delete %s: %v", e.Step, e.Op.Name, e.Err)
	default:
		return fmt.Sprintf("step %d: write %s: %v", e.Step, e.Op.Name, e.Err)
	}
}

// Unwrap returns the underlying filesystem error.
func (e *IOError) Unwrap() error {
	return e.Err
}

// ExitCode marks filesystem failures as OS-level errors.
func (e *IOError) ExitCode() int {
	return 2
}

// execute applies a plan one step at a time. Each step is a single
// atomic filesystem operation and a cancellation point. There is no
// cross-step rollback: on failure the applied prefix stays on disk.
func (s *Service) execute(ctx context.Context, plan domain.Plan) error {
	for i, op := range plan.Ops {
		if err := ctx.Err(); err != nil {
			return err
		}
		var err error
		switch op.Kind {
		case domain.OpCreate:
			err = s.files.Write(ctx, op.Name, op.Content)
		case domain.OpRename:
			err = s.files.Rename(ctx, op.Name, op.NewName)
		case domain.OpDelete:
			err = s.files.Delete(ctx, op.Name)
		}
		if err != nil {
			return &IOError{Step: i, Op: op, Err: err}
		}
	}
	return nil
}
