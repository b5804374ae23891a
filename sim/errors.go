package sim

import "fmt"

// RunError wraps a per-iteration failure with the iteration index and the
// 1-based batch it occurred in. The runner never skips a failed iteration;
// the whole run fails with the original cause attached.
type RunError struct {
	Iteration int
	Batch     int
	Err       error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("simulation failed at iteration %d (batch %d): %v", e.Iteration, e.Batch, e.Err)
}

func (e *RunError) Unwrap() error {
	return e.Err
}
