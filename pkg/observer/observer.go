// Package observer provides the Observer pattern implementation for graph
// execution monitoring. This allows library consumers to track and monitor
// graph execution behavior without coupling to the executor implementation.
package observer

import (
	"context"
	"time"

	"github.com/colexec/colexec/pkg/types"
)

// EventType represents the type of execution event.
type EventType string

const (
	// Graph-level events
	EventGraphStart EventType = "graph_start"
	EventGraphEnd   EventType = "graph_end"

	// Node-level events
	EventNodeStart   EventType = "node_start"
	EventNodeSuccess EventType = "node_success"
	EventNodeFailure EventType = "node_failure"

	// Edge-level events
	EventEdgeSealed EventType = "edge_sealed"
)

// ExecutionStatus represents the status of a node or graph run.
type ExecutionStatus string

const (
	StatusStarted   ExecutionStatus = "started"
	StatusSuccess   ExecutionStatus = "success"
	StatusFailure   ExecutionStatus = "failure"
	StatusCompleted ExecutionStatus = "completed"
)

// Event represents an execution event with all relevant metadata.
type Event struct {
	Type      EventType       `json:"type"`
	Status    ExecutionStatus `json:"status"`
	Timestamp time.Time       `json:"timestamp"`

	RunID string `json:"run_id"`

	// Node-specific data (empty for graph-level events)
	NodeName string        `json:"node_name,omitempty"`
	IterKind types.IterKind `json:"iter_kind,omitempty"`

	// Edge-specific data (empty unless Type == EventEdgeSealed)
	EdgeID int `json:"edge_id,omitempty"`

	StartTime   time.Time     `json:"start_time,omitempty"`
	ElapsedTime time.Duration `json:"elapsed_time,omitempty"`

	Result interface{} `json:"result,omitempty"`
	Error  error       `json:"error,omitempty"`

	Metadata map[string]interface{} `json:"metadata,omitempty"`
}

// Observer defines the interface for graph execution observers. Observers
// receive notifications about various stages of graph execution.
type Observer interface {
	// OnEvent is called when an execution event occurs. The context can be
	// used for cancellation and passing request-scoped values.
	OnEvent(ctx context.Context, event Event)
}

// Logger defines the interface for custom logging, letting library
// consumers integrate with their own logging systems.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
}
