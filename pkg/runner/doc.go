// Package runner implements the NodeRunner lifecycle and its nine
// iteration-kind variants (spec.md §4.6): input, output, nop, map, flat_map,
// filter, window, time_window, concat.
//
// # Lifecycle
//
// READY -> RUNNING -> (FINISHED | FAILED). Initialize prepares the runner;
// Process drives its streaming loop until every in-queue reaches
// end-of-stream (FINISHED, sealing out-queues) or the operator returns an
// error (FAILED, recording the error and sealing out-queues immediately so
// downstream runners unblock instead of hanging on a Get that will never
// come).
//
// # Thread safety
//
// A single Runner's Process must be invoked from exactly one goroutine (the
// worker pool slot the Graph Executor assigns it); Status and Err are safe
// to call concurrently from any goroutine for inspection and join-time
// aggregation.
package runner
