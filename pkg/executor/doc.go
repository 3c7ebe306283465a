// Package executor ties pkg/compiler, pkg/queue, pkg/operator, pkg/opcache,
// and pkg/runner together into one runnable graph (spec.md §4.7, §5).
//
// Lifecycle: New builds queues and runners from a compiled Plan without
// starting anything; Initialize prepares every runner; Execute seeds the
// entry edge, runs the graph to completion, and returns the terminal
// queue or an aggregated error. An Executor is single-use — build a new
// one per run, or reuse a shared opcache.Cache across many via
// WithOperatorCache to amortize hub-operator construction.
package executor
