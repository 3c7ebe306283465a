package telemetry

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	promclient "github.com/prometheus/client_golang/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

const serviceName = "colexec"

const (
	metricRunExecutions = "colexec_run_executions_total"
	metricRunDuration   = "colexec_run_duration_ms"
	metricRunSuccess    = "colexec_run_success_total"
	metricRunFailure    = "colexec_run_failure_total"

	metricNodeExecutions = "colexec_node_executions_total"
	metricNodeDuration   = "colexec_node_duration_ms"
	metricNodeSuccess    = "colexec_node_success_total"
	metricNodeFailure    = "colexec_node_failure_total"

	metricEdgeSealed = "colexec_edge_sealed_total"
	metricQueueDepth = "colexec_queue_depth"
)

// Config holds telemetry configuration.
type Config struct {
	ServiceName    string
	ServiceVersion string
	Environment    string
	EnableTracing  bool
	EnableMetrics  bool
}

// DefaultConfig returns default telemetry configuration.
func DefaultConfig() Config {
	return Config{
		ServiceName:    serviceName,
		ServiceVersion: "0.1.0",
		Environment:    "development",
		EnableTracing:  true,
		EnableMetrics:  true,
	}
}

// Provider owns the OpenTelemetry meter/tracer pair and the metric
// instruments the profiler sink records into.
type Provider struct {
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider trace.TracerProvider
	meter          metric.Meter
	tracer         trace.Tracer

	runExecutions metric.Int64Counter
	runDuration   metric.Float64Histogram
	runSuccess    metric.Int64Counter
	runFailure    metric.Int64Counter

	nodeExecutions metric.Int64Counter
	nodeDuration   metric.Float64Histogram
	nodeSuccess    metric.Int64Counter
	nodeFailure    metric.Int64Counter

	edgeSealed metric.Int64Counter
	queueDepth metric.Int64UpDownCounter

	mu sync.RWMutex
}

// NewProvider creates a Provider with a Prometheus metrics exporter.
func NewProvider(ctx context.Context, config Config) (*Provider, error) {
	provider := &Provider{}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceName(config.ServiceName),
			semconv.ServiceVersion(config.ServiceVersion),
			attribute.String("environment", config.Environment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	if config.EnableMetrics {
		if err := provider.initMetrics(res); err != nil {
			return nil, fmt.Errorf("initialize metrics: %w", err)
		}
	}

	if config.EnableTracing {
		provider.initTracing()
	}

	return provider, nil
}

func (p *Provider) initMetrics(res *resource.Resource) error {
	// Each Provider gets its own prometheus.Registry rather than
	// prometheus.DefaultRegisterer: multiple Providers (one per Executor
	// run, or one per test) register instruments under the same fixed
	// metric names, which would otherwise collide on the global registry.
	exporter, err := prometheus.New(prometheus.WithRegisterer(promclient.NewRegistry()))
	if err != nil {
		return fmt.Errorf("create prometheus exporter: %w", err)
	}

	p.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(p.meterProvider)
	p.meter = p.meterProvider.Meter(serviceName)

	return p.createMetricInstruments()
}

func (p *Provider) initTracing() {
	p.tracerProvider = otel.GetTracerProvider()
	p.tracer = p.tracerProvider.Tracer(serviceName)
}

func (p *Provider) createMetricInstruments() error {
	var err error

	if p.runExecutions, err = p.meter.Int64Counter(metricRunExecutions,
		metric.WithDescription("Total number of graph executions")); err != nil {
		return err
	}
	if p.runDuration, err = p.meter.Float64Histogram(metricRunDuration,
		metric.WithDescription("Graph execution duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.runSuccess, err = p.meter.Int64Counter(metricRunSuccess,
		metric.WithDescription("Total number of successful graph executions")); err != nil {
		return err
	}
	if p.runFailure, err = p.meter.Int64Counter(metricRunFailure,
		metric.WithDescription("Total number of failed graph executions")); err != nil {
		return err
	}

	if p.nodeExecutions, err = p.meter.Int64Counter(metricNodeExecutions,
		metric.WithDescription("Total number of node runner executions")); err != nil {
		return err
	}
	if p.nodeDuration, err = p.meter.Float64Histogram(metricNodeDuration,
		metric.WithDescription("Node runner execution duration in milliseconds"), metric.WithUnit("ms")); err != nil {
		return err
	}
	if p.nodeSuccess, err = p.meter.Int64Counter(metricNodeSuccess,
		metric.WithDescription("Total number of node runners reaching FINISHED")); err != nil {
		return err
	}
	if p.nodeFailure, err = p.meter.Int64Counter(metricNodeFailure,
		metric.WithDescription("Total number of node runners reaching FAILED")); err != nil {
		return err
	}

	if p.edgeSealed, err = p.meter.Int64Counter(metricEdgeSealed,
		metric.WithDescription("Total number of edges sealed")); err != nil {
		return err
	}
	if p.queueDepth, err = p.meter.Int64UpDownCounter(metricQueueDepth,
		metric.WithDescription("Buffered, undrained rows per edge at the moment it sealed")); err != nil {
		return err
	}

	return nil
}

// Tracer returns the tracer for creating spans.
func (p *Provider) Tracer() trace.Tracer {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.tracer
}

// Meter returns the meter for recording metrics.
func (p *Provider) Meter() metric.Meter {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.meter
}

// RecordRunExecution records metrics for one completed graph execution.
func (p *Provider) RecordRunExecution(ctx context.Context, runID string, durationMs float64, success bool, nodeCount int) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("run.id", runID),
		attribute.Int("nodes.count", nodeCount),
	}
	p.runExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.runDuration.Record(ctx, durationMs, metric.WithAttributes(attrs...))
	if success {
		p.runSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.runFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordNodeExecution records metrics for one NodeRunner reaching a
// terminal status.
func (p *Provider) RecordNodeExecution(ctx context.Context, nodeName string, iterKind string, durationMs float64, success bool) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.String("node.name", nodeName),
		attribute.String("node.iter_kind", iterKind),
	}
	p.nodeExecutions.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.nodeDuration.Record(ctx, durationMs, metric.WithAttributes(attrs...))
	if success {
		p.nodeSuccess.Add(ctx, 1, metric.WithAttributes(attrs...))
	} else {
		p.nodeFailure.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordEdgeSealed records one edge reaching end-of-stream, with the
// number of rows still buffered (and thus never read) at seal time.
func (p *Provider) RecordEdgeSealed(ctx context.Context, edgeID int, bufferedRows int) {
	if p.meter == nil {
		return
	}
	attrs := []attribute.KeyValue{attribute.Int("edge.id", edgeID)}
	p.edgeSealed.Add(ctx, 1, metric.WithAttributes(attrs...))
	p.queueDepth.Add(ctx, int64(bufferedRows), metric.WithAttributes(attrs...))
}

// Shutdown gracefully shuts down the telemetry provider.
func (p *Provider) Shutdown(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.meterProvider != nil {
		if err := p.meterProvider.Shutdown(ctx); err != nil {
			return fmt.Errorf("shutdown meter provider: %w", err)
		}
	}
	return nil
}
