package telemetry

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/colexec/colexec/pkg/observer"
)

// ProfilerSink implements observer.Observer and is the concrete profiler
// sink spec.md §4.7 describes as optional Executor construction input: it
// turns NodeRunner lifecycle events and edge-seal events into OpenTelemetry
// spans and the Provider's Prometheus metrics.
type ProfilerSink struct {
	provider *Provider

	mu        sync.Mutex
	runSpan   trace.Span
	runStart  time.Time
	nodeSpans map[string]trace.Span
	nodeStart map[string]time.Time
	nodeCount int
}

// NewProfilerSink creates a ProfilerSink recording into provider.
func NewProfilerSink(provider *Provider) *ProfilerSink {
	return &ProfilerSink{
		provider:  provider,
		nodeSpans: make(map[string]trace.Span),
		nodeStart: make(map[string]time.Time),
	}
}

// OnEvent implements observer.Observer.
func (s *ProfilerSink) OnEvent(ctx context.Context, event observer.Event) {
	switch event.Type {
	case observer.EventGraphStart:
		s.handleGraphStart(ctx, event)
	case observer.EventGraphEnd:
		s.handleGraphEnd(ctx, event)
	case observer.EventNodeStart:
		s.handleNodeStart(ctx, event)
	case observer.EventNodeSuccess:
		s.handleNodeEnd(ctx, event, true)
	case observer.EventNodeFailure:
		s.handleNodeEnd(ctx, event, false)
	case observer.EventEdgeSealed:
		s.handleEdgeSealed(ctx, event)
	}
}

func (s *ProfilerSink) handleGraphStart(ctx context.Context, event observer.Event) {
	_, span := s.provider.Tracer().Start(ctx, "graph.execute",
		trace.WithAttributes(attribute.String("run.id", event.RunID)))

	s.mu.Lock()
	s.runSpan = span
	s.runStart = event.Timestamp
	s.nodeCount = 0
	s.mu.Unlock()
}

func (s *ProfilerSink) handleGraphEnd(ctx context.Context, event observer.Event) {
	s.mu.Lock()
	duration := time.Since(s.runStart)
	span := s.runSpan
	nodeCount := s.nodeCount
	s.mu.Unlock()

	success := event.Status == observer.StatusSuccess
	s.provider.RecordRunExecution(ctx, event.RunID, float64(duration.Milliseconds()), success, nodeCount)

	if span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "run completed")
		}
		span.End()
	}
}

func (s *ProfilerSink) handleNodeStart(ctx context.Context, event observer.Event) {
	s.mu.Lock()
	parent := s.runSpan
	s.nodeCount++
	s.mu.Unlock()

	spanCtx := ctx
	if parent != nil {
		spanCtx = trace.ContextWithSpan(ctx, parent)
	}
	_, span := s.provider.Tracer().Start(spanCtx, "node.process",
		trace.WithAttributes(
			attribute.String("node.name", event.NodeName),
			attribute.String("node.iter_kind", string(event.IterKind)),
			attribute.String("run.id", event.RunID),
		),
	)

	s.mu.Lock()
	s.nodeSpans[event.NodeName] = span
	s.nodeStart[event.NodeName] = event.Timestamp
	s.mu.Unlock()
}

func (s *ProfilerSink) handleNodeEnd(ctx context.Context, event observer.Event, success bool) {
	s.mu.Lock()
	start, hasStart := s.nodeStart[event.NodeName]
	span := s.nodeSpans[event.NodeName]
	delete(s.nodeStart, event.NodeName)
	delete(s.nodeSpans, event.NodeName)
	s.mu.Unlock()

	var duration time.Duration
	if hasStart {
		duration = time.Since(start)
	}
	s.provider.RecordNodeExecution(ctx, event.NodeName, string(event.IterKind), float64(duration.Milliseconds()), success)

	if span != nil {
		if event.Error != nil {
			span.RecordError(event.Error)
			span.SetStatus(codes.Error, event.Error.Error())
		} else {
			span.SetStatus(codes.Ok, "node completed")
		}
		span.End()
	}
}

func (s *ProfilerSink) handleEdgeSealed(ctx context.Context, event observer.Event) {
	s.provider.RecordEdgeSealed(ctx, event.EdgeID, 0)
}
