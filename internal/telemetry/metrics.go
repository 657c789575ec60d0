package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// ToolCallOutcome is the outcome of a single tool call, used as a metric attribute.
type ToolCallOutcome string

const (
	// ToolCallOutcomeSuccess means the tool reached Toxiproxy and reported success.
	ToolCallOutcomeSuccess ToolCallOutcome = "success"
	// ToolCallOutcomeError means the tool returned a failure report.
	ToolCallOutcomeError ToolCallOutcome = "error"
)

// CustomMetrics records toximcp-specific metrics.
type CustomMetrics interface {
	RecordToolCall(ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration)
}

type noopCustomMetrics struct{}

// NewNoopCustomMetrics returns a CustomMetrics implementation that does nothing.
func NewNoopCustomMetrics() CustomMetrics {
	return &noopCustomMetrics{}
}

func (n *noopCustomMetrics) RecordToolCall(context.Context, string, ToolCallOutcome, time.Duration) {}

type otelCustomMetrics struct {
	toolCalls       metric.Int64Counter
	toolCallLatency metric.Float64Histogram
}

// NewOtelCustomMetrics creates the toximcp instruments on the given meter.
func NewOtelCustomMetrics(meter metric.Meter) (CustomMetrics, error) {
	toolCalls, err := meter.Int64Counter(
		"toximcp_tool_calls_total",
		metric.WithDescription("Number of MCP tool calls handled, by tool and outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call counter: %w", err)
	}

	toolCallLatency, err := meter.Float64Histogram(
		"toximcp_tool_call_duration_seconds",
		metric.WithDescription("Time taken to handle an MCP tool call, including Toxiproxy API calls"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create tool call latency histogram: %w", err)
	}

	return &otelCustomMetrics{
		toolCalls:       toolCalls,
		toolCallLatency: toolCallLatency,
	}, nil
}

func (o *otelCustomMetrics) RecordToolCall(
	ctx context.Context, toolName string, outcome ToolCallOutcome, elapsed time.Duration,
) {
	attrs := metric.WithAttributes(
		attribute.String("tool", toolName),
		attribute.String("outcome", string(outcome)),
	)
	o.toolCalls.Add(ctx, 1, attrs)
	o.toolCallLatency.Record(ctx, elapsed.Seconds(), attrs)
}
