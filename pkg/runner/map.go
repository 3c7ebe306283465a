package runner

import (
	"context"
	"fmt"
)

// mapRunner invokes the operator once per input row; the operator's
// returned columns overwrite the corresponding input columns and the rest
// of the row is copied through unchanged (spec.md §4.6).
type mapRunner struct{ base }

func (r *mapRunner) Initialize(ctx context.Context) error {
	if r.op == nil || r.op.Map == nil {
		return fmt.Errorf("node %q: %w", r.node.Name, ErrNoOperator)
	}
	return nil
}

func (r *mapRunner) Process(ctx context.Context) error {
	r.setRunning()
	for _, q := range r.in {
		for {
			row, ok := q.Get()
			if !ok {
				break
			}
			result, err := r.op.Map(row)
			if err != nil {
				return r.fail(err)
			}
			out := row.Clone()
			for k, v := range result {
				out[k] = v
			}
			if err := r.writeAll(out); err != nil {
				return r.fail(err)
			}
		}
	}
	r.setFinished()
	return nil
}
