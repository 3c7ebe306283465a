package executor

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for Executor construction and execution.
var (
	ErrNilPlan     = errors.New("executor: plan is nil")
	ErrNilAdapter  = errors.New("executor: operator adapter is nil")
	ErrNoEntryEdge = errors.New("executor: _input has no entry edge")
	ErrNoOutputEdge = errors.New("executor: _output has no out-edge")
)

// ExecutionError aggregates every FAILED NodeRunner's error from one
// Execute call (spec.md §7: runner errors propagate as a single execution
// error).
type ExecutionError struct {
	NodeErrors []error
}

func (e *ExecutionError) Error() string {
	parts := make([]string, len(e.NodeErrors))
	for i, err := range e.NodeErrors {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("executor: %d node(s) failed: %s", len(e.NodeErrors), strings.Join(parts, "; "))
}

// Unwrap exposes every node error to errors.Is/errors.As chains.
func (e *ExecutionError) Unwrap() []error { return e.NodeErrors }
