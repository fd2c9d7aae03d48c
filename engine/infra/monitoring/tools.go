package monitoring

import (
	"context"
	"time"

	"github.com/orca-network/orca/pkg/logger"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolDurationBuckets covers fast store reads up to the 30s prepare timeout.
var ToolDurationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// ToolMetrics records MCP tool invocations.
type ToolMetrics struct {
	calls    metric.Int64Counter
	duration metric.Float64Histogram
	prepares metric.Int64Counter
}

func NewToolMetrics(ctx context.Context, meter metric.Meter) *ToolMetrics {
	log := logger.FromContext(ctx)
	m := &ToolMetrics{}
	var err error
	m.calls, err = meter.Int64Counter(
		"orca_tool_calls_total",
		metric.WithDescription("Total MCP tool calls by tool and outcome"),
	)
	if err != nil {
		log.Error("Failed to create tool calls counter", "error", err)
	}
	m.duration, err = meter.Float64Histogram(
		"orca_tool_call_duration_seconds",
		metric.WithDescription("MCP tool call latency"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(ToolDurationBuckets...),
	)
	if err != nil {
		log.Error("Failed to create tool duration histogram", "error", err)
	}
	m.prepares, err = meter.Int64Counter(
		"orca_prepare_dispatch_total",
		metric.WithDescription("Agent prepare dispatches by outcome"),
	)
	if err != nil {
		log.Error("Failed to create prepare dispatch counter", "error", err)
	}
	return m
}

// RecordCall records one tool invocation. outcome is "success" or an error kind.
func (m *ToolMetrics) RecordCall(ctx context.Context, tool, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("tool", tool),
		attribute.String("outcome", outcome),
	)
	if m.calls != nil {
		m.calls.Add(ctx, 1, attrs)
	}
	if m.duration != nil {
		m.duration.Record(ctx, elapsed.Seconds(), attrs)
	}
}

func (m *ToolMetrics) RecordPrepare(ctx context.Context, outcome string) {
	if m == nil || m.prepares == nil {
		return
	}
	m.prepares.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}
