package runner

import (
	"context"
	"fmt"

	"github.com/colexec/colexec/pkg/types"
)

// filterRunner applies the operator's predicate over the columns named in
// iter_info.param.filter_columns (or the whole row if unset); rows
// satisfying the predicate pass through unchanged, others are dropped
// (spec.md §4.6).
type filterRunner struct{ base }

func (r *filterRunner) Initialize(ctx context.Context) error {
	if r.op == nil || r.op.Filter == nil {
		return fmt.Errorf("node %q: %w", r.node.Name, ErrNoOperator)
	}
	return nil
}

func (r *filterRunner) Process(ctx context.Context) error {
	r.setRunning()
	var filterColumns []string
	if r.node.IterInfo.Filter != nil {
		filterColumns = r.node.IterInfo.Filter.FilterColumns
	}

	for _, q := range r.in {
		for {
			row, ok := q.Get()
			if !ok {
				break
			}
			keep, err := r.op.Filter(projectColumns(row, filterColumns))
			if err != nil {
				return r.fail(err)
			}
			if !keep {
				continue
			}
			if err := r.writeAll(row); err != nil {
				return r.fail(err)
			}
		}
	}
	r.setFinished()
	return nil
}

// projectColumns returns row unchanged if names is empty, otherwise a new
// Row containing only the named columns.
func projectColumns(row types.Row, names []string) types.Row {
	if len(names) == 0 {
		return row
	}
	out := make(types.Row, len(names))
	for _, name := range names {
		if v, ok := row[name]; ok {
			out[name] = v
		}
	}
	return out
}
