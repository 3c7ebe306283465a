// Package observer provides an event-driven observer pattern for graph
// execution.
//
// # Overview
//
// Observers monitor graph lifecycle, node execution, and edge sealing
// without coupling to the executor implementation.
//
// # Event Timing
//
//	EventGraphStart
//	  -> for each node: EventNodeStart -> EventNodeSuccess | EventNodeFailure
//	  -> for each edge: EventEdgeSealed (once its producers finish)
//	EventGraphEnd
//
// # Basic Usage
//
//	mgr := observer.NewManager()
//	mgr.Register(observer.NewConsoleObserver())
//	mgr.Notify(ctx, observer.Event{Type: observer.EventGraphStart, RunID: runID})
//
// # Thread Safety
//
// Manager.Notify dispatches to each registered observer on its own
// goroutine; a panicking or slow observer never blocks other observers or
// graph execution.
package observer
