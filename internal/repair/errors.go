package repair

import (
	"errors"
	"fmt"
)

var (
	// ErrNonConvergence is returned when a stage cannot reach its postcondition within its budget
	ErrNonConvergence = errors.New("repair did not converge")

	// ErrNotManifold is returned when the repaired mesh is not a closed manifold
	ErrNotManifold = errors.New("repaired mesh is not a closed manifold")
)

// StageError reports which pipeline stage failed
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// nonConvergence builds the error a stage returns when its budget is spent
func nonConvergence(budget int, remaining int, what string) error {
	return fmt.Errorf("%w: %d %s left after %d iterations", ErrNonConvergence, remaining, what, budget)
}
