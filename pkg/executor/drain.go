package executor

import (
	"github.com/colexec/colexec/pkg/queue"
	"github.com/colexec/colexec/pkg/types"
)

// Drain reads every row from q until end-of-stream. Callers that only
// want the final result set (as opposed to streaming it onward) use this
// after a successful Execute.
func Drain(q *queue.TypedQueue) []types.Row {
	var rows []types.Row
	for {
		row, ok := q.Get()
		if !ok {
			return rows
		}
		rows = append(rows, row)
	}
}
