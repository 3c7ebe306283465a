// Package runner implements the NodeRunner polymorphic worker (spec.md
// §4.6): one variant per iteration kind, each pulling rows from its input
// queues, invoking the node's materialized Operator, pushing rows to its
// output queues, and managing end-of-stream and failure.
//
// Every runner is grounded on the teacher's per-node Executor pattern
// (pkg/executor/control_map.go and siblings: one type per node behavior,
// an Execute-shaped entry point, slog-style structured logging of node
// lifecycle) generalized from the teacher's single-shot tree evaluator to
// this module's continuously-streaming, queue-driven row processing.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/colexec/colexec/pkg/logging"
	"github.com/colexec/colexec/pkg/observer"
	"github.com/colexec/colexec/pkg/operator"
	"github.com/colexec/colexec/pkg/queue"
	"github.com/colexec/colexec/pkg/types"
)

// Status is a NodeRunner's lifecycle state: READY -> RUNNING -> (FINISHED | FAILED).
type Status string

const (
	StatusReady    Status = "ready"
	StatusRunning  Status = "running"
	StatusFinished Status = "finished"
	StatusFailed   Status = "failed"
)

// Runner is the polymorphic NodeRunner interface every iteration kind
// implements. Initialize prepares the runner (and may fail, e.g. on
// operator instantiation failure); Process runs the node's streaming loop
// to completion and is the method submitted to the executor's worker pool.
type Runner interface {
	Name() string
	Initialize(ctx context.Context) error
	Process(ctx context.Context) error
	Status() Status
	Err() error
}

// Deps bundles the collaborators every runner needs beyond its
// NodeDescriptor, queues and materialized operator: structured logging, an
// optional observer manager for lifecycle events, and the run ID.
type Deps struct {
	Logger   *logging.Logger
	Manager  *observer.Manager
	RunID    string
}

// base implements the shared bookkeeping (status transitions, logging,
// event notification, output sealing) every concrete runner embeds.
type base struct {
	node *types.NodeDescriptor
	in   []*queue.TypedQueue
	out  []*queue.TypedQueue
	op   *operator.Operator
	deps Deps

	mu     sync.Mutex
	status Status
	err    error
}

func newBase(node *types.NodeDescriptor, in, out []*queue.TypedQueue, op *operator.Operator, deps Deps) base {
	return base{node: node, in: in, out: out, op: op, deps: deps, status: StatusReady}
}

func (b *base) Name() string { return b.node.Name }

func (b *base) Status() Status {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.status
}

func (b *base) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

func (b *base) setRunning() {
	b.mu.Lock()
	b.status = StatusRunning
	b.mu.Unlock()
	b.logger().Debug("node starting")
	b.notify(observer.EventNodeStart, observer.StatusStarted, nil, nil)
}

func (b *base) setFinished() {
	b.mu.Lock()
	b.status = StatusFinished
	b.mu.Unlock()
	b.sealOutputs()
	b.logger().Debug("node finished")
	b.notify(observer.EventNodeSuccess, observer.StatusSuccess, nil, nil)
}

// fail transitions the runner to FAILED, records err, seals every
// out-queue immediately so downstream runners unblock, and returns the
// wrapped error for the caller to propagate (spec.md §4.6, §7).
func (b *base) fail(err error) error {
	wrapped := fmt.Errorf("node %q: %w", b.node.Name, err)
	b.mu.Lock()
	b.status = StatusFailed
	b.err = wrapped
	b.mu.Unlock()
	b.sealOutputs()
	b.logger().WithError(err).Error("node failed")
	b.notify(observer.EventNodeFailure, observer.StatusFailure, nil, wrapped)
	return wrapped
}

func (b *base) sealOutputs() {
	for i, q := range b.out {
		q.Seal()
		if b.node.OutEdges != nil && i < len(b.node.OutEdges) {
			b.notify(observer.EventEdgeSealed, observer.StatusCompleted, &b.node.OutEdges[i], nil)
		}
	}
}

func (b *base) notify(eventType observer.EventType, status observer.ExecutionStatus, edgeID *int, err error) {
	if b.deps.Manager == nil || !b.deps.Manager.HasObservers() {
		return
	}
	event := observer.Event{
		Type:      eventType,
		Status:    status,
		Timestamp: time.Now(),
		RunID:     b.deps.RunID,
		NodeName:  b.node.Name,
		IterKind:  b.node.IterInfo.Kind,
		Error:     err,
	}
	if edgeID != nil {
		event.EdgeID = *edgeID
	}
	b.deps.Manager.Notify(context.Background(), event)
}

func (b *base) logger() *logging.Logger {
	if b.deps.Logger == nil {
		return logging.New(logging.DefaultConfig())
	}
	return b.deps.Logger.WithNodeName(b.node.Name).WithIterKind(b.node.IterInfo.Kind)
}

// writeAll pushes row to every out-queue. A sealed out-queue here means a
// downstream failure already tore down the graph; it is reported, not
// silently swallowed.
func (b *base) writeAll(row types.Row) error {
	for _, q := range b.out {
		if err := q.Put(row); err != nil {
			return err
		}
	}
	return nil
}

// New builds the Runner appropriate for node's iteration kind.
func New(node *types.NodeDescriptor, in, out []*queue.TypedQueue, op *operator.Operator, deps Deps) (Runner, error) {
	b := newBase(node, in, out, op, deps)

	switch node.IterInfo.Kind {
	case types.IterInput:
		return &inputRunner{base: b}, nil
	case types.IterOutput:
		return &outputRunner{base: b}, nil
	case types.IterNop:
		return &nopRunner{base: b}, nil
	case types.IterMap:
		return &mapRunner{base: b}, nil
	case types.IterFlatMap:
		return &flatMapRunner{base: b}, nil
	case types.IterFilter:
		return &filterRunner{base: b}, nil
	case types.IterWindow:
		return &windowRunner{base: b}, nil
	case types.IterTimeWindow:
		return &timeWindowRunner{base: b}, nil
	case types.IterConcat:
		return &concatRunner{base: b}, nil
	default:
		return nil, fmt.Errorf("node %q: %w", node.Name, ErrUnknownIterKind)
	}
}
