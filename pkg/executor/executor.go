// Package executor implements the Graph Executor (spec.md §4.7): the
// object that binds a compiled Plan to live TypedQueues and NodeRunners,
// drives every runner to completion on a worker pool, and hands the
// caller the terminal queue.
//
// This package supersedes the teacher's pkg/executor (a registry of ~40
// concrete per-node-type strategies, one file per workflow node kind) and
// the orchestration role of the teacher's pkg/engine.Engine — that
// strategy-per-node-type model is now pkg/runner (one Runner per iteration
// kind), and this package plays the Engine's role: own the queues, own
// the runners, drive one execution, hand back a result. Construction
// wires one TypedQueue per compiled edge and one NodeRunner per node,
// materializing each node's Operator through the shared Adapter and, for
// hub-referenced operators, the process-wide opcache (spec.md §5 "Global
// operator cache"). Execution seeds _input's dedicated entry edge with the
// caller's input row, seals it, and runs every runner concurrently on a
// golang.org/x/sync/errgroup pool sized per spec.md §5's node_count+1
// rule — grounded on the teacher's parallel_executor.go level-scheduled
// goroutine pool, generalized here from DAG-level barriers to the
// queue-suspension model §4.5/§4.6 already provide.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/colexec/colexec/pkg/compiler"
	"github.com/colexec/colexec/pkg/config"
	"github.com/colexec/colexec/pkg/logging"
	"github.com/colexec/colexec/pkg/observer"
	"github.com/colexec/colexec/pkg/opcache"
	"github.com/colexec/colexec/pkg/operator"
	"github.com/colexec/colexec/pkg/queue"
	"github.com/colexec/colexec/pkg/runner"
	"github.com/colexec/colexec/pkg/types"
)

// Executor binds one compiled Plan to live queues and runners. It is
// single-use: construct one per graph run via New, call Initialize once,
// then Execute once.
type Executor struct {
	plan    *compiler.Plan
	cfg     *config.Config
	adapter *operator.Adapter
	cache   *opcache.Cache
	logger  *logging.Logger
	manager *observer.Manager
	runID   string

	queues    map[int]*queue.TypedQueue
	runners   map[string]runner.Runner
	cacheKeys map[string]string // node name -> opcache key, for hub operators
}

// Option configures an Executor at construction.
type Option func(*Executor)

// WithConfig overrides the default production config.Config.
func WithConfig(cfg *config.Config) Option {
	return func(e *Executor) { e.cfg = cfg }
}

// WithOperatorCache supplies a process-wide opcache.Cache shared across
// executor instances. Without one, each Executor gets a private cache, so
// hub operators are never shared across unrelated runs.
func WithOperatorCache(cache *opcache.Cache) Option {
	return func(e *Executor) { e.cache = cache }
}

// WithLogger overrides the default stdout JSON logger.
func WithLogger(logger *logging.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithObserverManager attaches an observer.Manager so lifecycle events
// (node start/success/failure, edge seal) reach registered Observers —
// e.g. the pkg/telemetry profiler sink.
func WithObserverManager(manager *observer.Manager) Option {
	return func(e *Executor) { e.manager = manager }
}

// WithRunID overrides the generated run identifier, e.g. to correlate an
// executor run with a caller-supplied request ID.
func WithRunID(runID string) Option {
	return func(e *Executor) { e.runID = runID }
}

// New constructs an Executor for plan: one TypedQueue per edge, one
// NodeRunner per node, operators materialized through adapter. It does
// not start execution; call Initialize then Execute.
func New(plan *compiler.Plan, adapter *operator.Adapter, opts ...Option) (*Executor, error) {
	if plan == nil {
		return nil, ErrNilPlan
	}
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	e := &Executor{
		plan:      plan,
		cfg:       config.Default(),
		adapter:   adapter,
		cache:     opcache.New(),
		logger:    logging.New(logging.DefaultConfig()),
		runID:     uuid.New().String(),
		queues:    make(map[int]*queue.TypedQueue),
		runners:   make(map[string]runner.Runner),
		cacheKeys: make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.WithRunID(e.runID)

	for _, edge := range plan.Edges {
		e.queues[edge.ID] = queue.New(e.cfg.QueueCapacity, edge.Columns)
	}

	for _, name := range plan.Order {
		node := plan.Nodes[name]

		op, err := e.buildOperator(node)
		if err != nil {
			return nil, fmt.Errorf("node %q: %w", name, err)
		}

		in := edgeQueues(e.queues, node.InEdges)
		out := edgeQueues(e.queues, node.OutEdges)

		deps := runner.Deps{Logger: e.logger, Manager: e.manager, RunID: e.runID}
		r, err := runner.New(node, in, out, op, deps)
		if err != nil {
			return nil, err
		}
		e.runners[name] = r
	}

	return e, nil
}

// buildOperator materializes node's Operator, routing hub references
// through the opcache so that concurrent or repeated runs sharing the
// same (ref, init args, tag) reuse one instance (spec.md §5). _input and
// _output carry no operator.
func (e *Executor) buildOperator(node *types.NodeDescriptor) (*operator.Operator, error) {
	if node.IsInput() || node.IsOutput() {
		return nil, nil
	}

	if node.OpInfo == nil || node.OpInfo.Kind != types.OperatorHub {
		return e.adapter.Build(node)
	}

	tag := node.OpInfo.Tag
	if tag == "" {
		tag = "main"
	}
	key := opcache.Key(node.OpInfo.Operator, node.OpInfo.InitArgs, node.OpInfo.InitKwargs, tag)

	v, err := e.cache.Acquire(key, func() (interface{}, error) {
		return e.adapter.Build(node)
	})
	if err != nil {
		return nil, err
	}
	e.cacheKeys[node.Name] = key
	return v.(*operator.Operator), nil
}

func edgeQueues(queues map[int]*queue.TypedQueue, edgeIDs []int) []*queue.TypedQueue {
	out := make([]*queue.TypedQueue, len(edgeIDs))
	for i, id := range edgeIDs {
		out[i] = queues[id]
	}
	return out
}

// Initialize calls Initialize on every NodeRunner, in topological order,
// stopping at the first failure.
func (e *Executor) Initialize(ctx context.Context) error {
	for _, name := range e.plan.Order {
		if err := e.runners[name].Initialize(ctx); err != nil {
			return fmt.Errorf("initialize node %q: %w", name, err)
		}
	}
	return nil
}

// Execute seeds _input's entry edge with input, seals it, and drives every runner to
// completion concurrently. On success it returns the terminal queue
// (_output's sole out-edge); on any runner failure it returns the
// aggregated error. Operator cache references acquired for this run are
// released before returning either way.
func (e *Executor) Execute(ctx context.Context, input types.Row) (*queue.TypedQueue, error) {
	defer e.releaseOperators()

	if e.cfg.MaxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.MaxExecutionTime)
		defer cancel()
	}

	inputNode := e.plan.Nodes[types.InputNodeName]
	if len(inputNode.InEdges) == 0 {
		return nil, ErrNoEntryEdge
	}
	entryQueue := e.queues[inputNode.InEdges[0]]
	if err := entryQueue.Put(input); err != nil {
		return nil, fmt.Errorf("seed entry edge: %w", err)
	}
	entryQueue.Seal()

	e.notifyGraph(observer.EventGraphStart, observer.StatusStarted, nil)

	group, gctx := errgroup.WithContext(ctx)
	group.SetLimit(len(e.plan.Order) + 1)

	for _, name := range e.plan.Order {
		r := e.runners[name]
		group.Go(func() error {
			return r.Process(gctx)
		})
	}

	// errgroup's own return value is not used to short-circuit: every
	// runner's fail() already seals its outputs so peers unblock rather
	// than deadlock, and the real per-node errors are read off Status/Err
	// below once every runner has returned.
	_ = group.Wait()

	runErr := e.aggregateFailures()
	if runErr != nil {
		e.notifyGraph(observer.EventGraphEnd, observer.StatusFailure, runErr)
		return nil, runErr
	}
	e.notifyGraph(observer.EventGraphEnd, observer.StatusSuccess, nil)

	outputNode := e.plan.Nodes[types.OutputNodeName]
	if len(outputNode.OutEdges) == 0 {
		return nil, ErrNoOutputEdge
	}
	return e.queues[outputNode.OutEdges[0]], nil
}

func (e *Executor) notifyGraph(eventType observer.EventType, status observer.ExecutionStatus, err error) {
	if e.manager == nil || !e.manager.HasObservers() {
		return
	}
	e.manager.Notify(context.Background(), observer.Event{
		Type:      eventType,
		Status:    status,
		Timestamp: time.Now(),
		RunID:     e.runID,
		Error:     err,
	})
}

// aggregateFailures inspects every runner's terminal status and combines
// any FAILED runner's error into one execution error (spec.md §4.7, §7).
func (e *Executor) aggregateFailures() error {
	var failed []error
	for _, name := range e.plan.Order {
		r := e.runners[name]
		if r.Status() == runner.StatusFailed {
			failed = append(failed, r.Err())
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return &ExecutionError{NodeErrors: failed}
}

func (e *Executor) releaseOperators() {
	for _, key := range e.cacheKeys {
		e.cache.Release(key)
	}
}

// Snapshot exposes the compiled plan's debug view, e.g. for a CLI --dump
// flag or a readiness probe.
func (e *Executor) Snapshot() compiler.Snapshot { return e.plan.Snapshot() }

// RunID returns the identifier this execution's logs and observer events
// are tagged with.
func (e *Executor) RunID() string { return e.runID }
