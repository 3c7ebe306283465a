// Package telemetry provides the Graph Executor's optional profiler sink
// (spec.md §4.7): an OpenTelemetry meter/tracer pair exported via
// Prometheus, recording per-node execution counts, durations, and outcomes,
// plus per-edge seal counts. Provider.RecordEdgeSealed also takes a
// buffered-row depth, but ProfilerSink always passes 0 because edge-seal
// events carry no queue depth. ProfilerSink implements
// observer.Observer so it plugs into the same notification path as any
// other Observer — attach it via executor.WithObserverManager.
package telemetry
