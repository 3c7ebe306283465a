// Package queue implements TypedQueue (spec.md §4.5): the bounded,
// sealable, multi-producer/multi-consumer buffer of rows that carries data
// across a compiled edge. It is the runtime counterpart to the Compiler's
// static SchemaEntry: column type metadata is fixed at construction and
// SCALAR columns are broadcast exactly once.
package queue

import (
	"sync"

	"github.com/colexec/colexec/pkg/types"
)

// TypedQueue is an ordered, bounded sequence of rows shared by exactly the
// edge's declared producer(s) and consumer(s).
//
// Ordering: values pushed by a single producer appear in the order pushed.
// Ordering across multiple producers sharing one queue (concat, multi-edge
// fan-in) is unspecified beyond that.
type TypedQueue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	capacity int
	rows     []types.Row
	sealed   bool

	columns map[string]types.SchemaEntry
	scalars types.Row // broadcast values, written at most once per column
}

// New creates a TypedQueue of the given capacity carrying the supplied
// column schema. Capacity must be positive; it is the bound enforced by
// put.
func New(capacity int, columns map[string]types.SchemaEntry) *TypedQueue {
	q := &TypedQueue{
		capacity: capacity,
		rows:     make([]types.Row, 0, capacity),
		columns:  columns,
		scalars:  make(types.Row),
	}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q
}

// Columns returns the queue's immutable column schema.
func (q *TypedQueue) Columns() map[string]types.SchemaEntry {
	return q.columns
}

// Put appends a row, blocking while the queue is at capacity. SCALAR
// columns present in row are recorded once and broadcast to every row
// subsequently returned by Get, including rows already buffered at the
// time the SCALAR was written. Put fails with ErrQueueSealed if the queue
// has already been sealed.
func (q *TypedQueue) Put(row types.Row) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.sealed {
		return ErrQueueSealed
	}

	for name, entry := range q.columns {
		if entry.Type != types.ColumnScalar {
			continue
		}
		if v, ok := row[name]; ok {
			if _, already := q.scalars[name]; !already {
				q.scalars[name] = v
			}
		}
	}

	for q.capacity > 0 && len(q.rows) >= q.capacity && !q.sealed {
		q.notFull.Wait()
	}
	if q.sealed {
		return ErrQueueSealed
	}

	q.rows = append(q.rows, row)
	q.notEmpty.Signal()
	return nil
}

// Get removes and returns the next row, blocking while the queue is empty
// and not sealed. It returns ok=false once the queue is sealed and fully
// drained (end-of-stream). Returned rows have SCALAR columns merged in
// from whatever broadcast values have been written so far.
func (q *TypedQueue) Get() (types.Row, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.rows) == 0 && !q.sealed {
		q.notEmpty.Wait()
	}
	if len(q.rows) == 0 {
		return nil, false
	}

	row := q.rows[0]
	q.rows = q.rows[1:]
	q.notFull.Signal()

	out := row.Clone()
	for name, v := range q.scalars {
		out[name] = v
	}
	return out, true
}

// Seal idempotently marks the queue as having no further producers. After
// Seal, Put fails and Get drains any remaining rows before returning
// end-of-stream.
func (q *TypedQueue) Seal() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sealed {
		return
	}
	q.sealed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// IsSealed reports whether Seal has been called.
func (q *TypedQueue) IsSealed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.sealed
}

// Len returns the number of buffered, undrained rows.
func (q *TypedQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.rows)
}
