package runner

import (
	"context"
	"fmt"
)

// flatMapRunner invokes the operator's IterableCallable once per input row
// and emits one output row per returned element (spec.md §4.6).
type flatMapRunner struct{ base }

func (r *flatMapRunner) Initialize(ctx context.Context) error {
	if r.op == nil || r.op.IterMap == nil {
		return fmt.Errorf("node %q: %w", r.node.Name, ErrNoOperator)
	}
	return nil
}

func (r *flatMapRunner) Process(ctx context.Context) error {
	r.setRunning()
	for _, q := range r.in {
		for {
			row, ok := q.Get()
			if !ok {
				break
			}
			results, err := r.op.IterMap(row)
			if err != nil {
				return r.fail(err)
			}
			for _, result := range results {
				out := row.Clone()
				for k, v := range result {
					out[k] = v
				}
				if err := r.writeAll(out); err != nil {
					return r.fail(err)
				}
			}
		}
	}
	r.setFinished()
	return nil
}
