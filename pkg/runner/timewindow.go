package runner

import (
	"context"
	"fmt"

	"github.com/colexec/colexec/pkg/types"
)

// timeWindowRunner groups input rows by a timestamp column into
// fixed-duration windows (TimeWindowParam), invoking the operator once per
// completed window. A window's span is [start, start+Duration); the first
// row past the span starts the next window and flushes the previous one.
type timeWindowRunner struct{ base }

func (r *timeWindowRunner) Initialize(ctx context.Context) error {
	if r.op == nil || r.op.Map == nil {
		return fmt.Errorf("node %q: %w", r.node.Name, ErrNoOperator)
	}
	if r.node.IterInfo.TimeWindow == nil {
		return fmt.Errorf("node %q: time_window node missing TimeWindowParam", r.node.Name)
	}
	return nil
}

func (r *timeWindowRunner) Process(ctx context.Context) error {
	r.setRunning()
	param := r.node.IterInfo.TimeWindow

	var (
		buffered   []types.Row
		windowFrom int64
		haveWindow bool
	)

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
			ts, err := extractTimestamp(row, param.TimestampColumn)
			if err != nil {
				return r.fail(err)
			}

			if !haveWindow {
				windowFrom = ts
				haveWindow = true
			} else if ts-windowFrom >= param.Duration {
				if err := emit(buffered); err != nil {
					return r.fail(err)
				}
				buffered = nil
				windowFrom = ts
			}
			buffered = append(buffered, row)
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

func extractTimestamp(row types.Row, column string) (int64, error) {
	v, ok := row[column]
	if !ok {
		return 0, fmt.Errorf("column %q: %w", column, ErrMissingTimestamp)
	}
	switch ts := v.(type) {
	case int64:
		return ts, nil
	case int:
		return int64(ts), nil
	default:
		return 0, fmt.Errorf("column %q: %w", column, ErrBadTimestampType)
	}
}
