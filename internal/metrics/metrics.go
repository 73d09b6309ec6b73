// Package metrics provides the OpenTelemetry instruments shared by every
// source descriptor.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	// SourceMetricsMeterName is the name used for the source metrics meter
	SourceMetricsMeterName = "github.com/alexanderjulianmartinez/sourcedesc/source"
)

// SourceMetrics holds the instruments for connector input and descriptor lifecycle.
// A nil *SourceMetrics is valid and records nothing.
type SourceMetrics struct {
	partitionInputCount metric.Int64Counter
	partitionInputBytes metric.Int64Counter
	descriptorBuilds    metric.Int64Counter
	registrySwept       metric.Int64Counter
}

// NewSourceMetrics creates a new SourceMetrics instance with the given meter provider.
// If provider is nil, it returns nil (no-op metrics).
func NewSourceMetrics(provider metric.MeterProvider) (*SourceMetrics, error) {
	if provider == nil {
		return nil, nil
	}

	meter := provider.Meter(SourceMetricsMeterName)

	inputCount, err := meter.Int64Counter(
		"stream_source_partition_input_count",
		metric.WithDescription("Total number of rows that have been input from specific partition"),
		metric.WithUnit("{row}"),
	)
	if err != nil {
		return nil, err
	}

	inputBytes, err := meter.Int64Counter(
		"stream_source_partition_input_bytes",
		metric.WithDescription("Total bytes that have been input from specific partition"),
		metric.WithUnit("By"),
	)
	if err != nil {
		return nil, err
	}

	builds, err := meter.Int64Counter(
		"source_descriptor_builds_total",
		metric.WithDescription("Number of source descriptor builds by kind and outcome"),
		metric.WithUnit("{build}"),
	)
	if err != nil {
		return nil, err
	}

	swept, err := meter.Int64Counter(
		"source_registry_swept_total",
		metric.WithDescription("Number of dead registry entries removed by the lazy sweep"),
		metric.WithUnit("{entry}"),
	)
	if err != nil {
		return nil, err
	}

	return &SourceMetrics{
		partitionInputCount: inputCount,
		partitionInputBytes: inputBytes,
		descriptorBuilds:    builds,
		registrySwept:       swept,
	}, nil
}

// NewNoopSourceMetrics returns instruments backed by the no-op meter provider.
func NewNoopSourceMetrics() *SourceMetrics {
	m, _ := NewSourceMetrics(noop.NewMeterProvider())
	return m
}

// RecordPartitionInput records rows and bytes read from one split.
func (m *SourceMetrics) RecordPartitionInput(ctx context.Context, splitID string, rows, bytes int64) {
	if m == nil || m.partitionInputCount == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("split_id", splitID))
	m.partitionInputCount.Add(ctx, rows, attrs)
	m.partitionInputBytes.Add(ctx, bytes, attrs)
}

// RecordBuild records one descriptor build attempt.
func (m *SourceMetrics) RecordBuild(ctx context.Context, kind, outcome string) {
	if m == nil || m.descriptorBuilds == nil {
		return
	}

	attrs := []attribute.KeyValue{
		attribute.String("kind", kind),
		attribute.String("outcome", outcome),
	}

	m.descriptorBuilds.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordSwept records the number of dead entries removed from the registry.
func (m *SourceMetrics) RecordSwept(ctx context.Context, n int) {
	if m == nil || m.registrySwept == nil || n == 0 {
		return
	}
	m.registrySwept.Add(ctx, int64(n))
}
