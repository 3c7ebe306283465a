package runner

import (
	"context"
	"fmt"

	"github.com/colexec/colexec/pkg/types"
)

// windowRunner groups input rows into fixed-size, optionally overlapping
// windows (WindowParam.Size / .Step; Step == 0 means tumbling, Step ==
// Size), invokes the operator once per window over a row whose columns are
// the per-row values collected into slices, and emits one output row per
// window whose new columns are QUEUE-typed (spec.md §4.6).
type windowRunner struct{ base }

func (r *windowRunner) Initialize(ctx context.Context) error {
	if r.op == nil || r.op.Map == nil {
		return fmt.Errorf("node %q: %w", r.node.Name, ErrNoOperator)
	}
	if r.node.IterInfo.Window == nil {
		return fmt.Errorf("node %q: window node missing WindowParam", r.node.Name)
	}
	return nil
}

func (r *windowRunner) Process(ctx context.Context) error {
	r.setRunning()
	param := r.node.IterInfo.Window
	step := param.Step
	if step <= 0 {
		step = param.Size
	}

	var buffered []types.Row
	emit := func(rows []types.Row) error {
		agg := aggregateRows(rows)
		result, err := r.op.Map(agg)
		if err != nil {
			return err
		}
		out := agg.Clone()
		for k, v := range result {
			out[k] = v
		}
		return r.writeAll(out)
	}

	for _, q := range r.in {
		for {
			row, ok := q.Get()
			if !ok {
				break
			}
			buffered = append(buffered, row)
			if len(buffered) == param.Size {
				if err := emit(buffered); err != nil {
					return r.fail(err)
				}
				if step >= len(buffered) {
					buffered = nil
				} else {
					buffered = append([]types.Row(nil), buffered[step:]...)
				}
			}
		}
	}
	if len(buffered) > 0 {
		if err := emit(buffered); err != nil {
			return r.fail(err)
		}
	}
	r.setFinished()
	return nil
}

// aggregateRows collects a window's rows into a single Row whose values
// are slices, one QUEUE-typed column per input column name.
func aggregateRows(rows []types.Row) types.Row {
	out := make(types.Row)
	for _, row := range rows {
		for k, v := range row {
			vals, _ := out[k].([]interface{})
			out[k] = append(vals, v)
		}
	}
	return out
}
