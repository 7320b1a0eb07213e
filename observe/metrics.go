package observe

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records execution metrics for coordination operations.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: implementations must not panic.
type Metrics interface {
	// RecordExecution records an operation with duration and error status.
	RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error)

	// RecordSuppressed records an invocation that was skipped without
	// running, e.g. a throttled call.
	RecordSuppressed(ctx context.Context, meta OpMeta)
}

type metricsImpl struct {
	meter           metric.Meter
	totalCount      metric.Int64Counter
	errorCount      metric.Int64Counter
	suppressedCount metric.Int64Counter
	durationHist    metric.Float64Histogram
}

func newMetrics(meter metric.Meter) (*metricsImpl, error) {
	totalCount, err := meter.Int64Counter(
		"op.exec.total",
		metric.WithDescription("Total number of operation executions"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	errorCount, err := meter.Int64Counter(
		"op.exec.errors",
		metric.WithDescription("Total number of operation execution errors"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return nil, err
	}

	suppressedCount, err := meter.Int64Counter(
		"op.exec.suppressed",
		metric.WithDescription("Invocations suppressed before running"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	durationHist, err := meter.Float64Histogram(
		"op.exec.duration_ms",
		metric.WithDescription("Operation execution duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &metricsImpl{
		meter:           meter,
		totalCount:      totalCount,
		errorCount:      errorCount,
		suppressedCount: suppressedCount,
		durationHist:    durationHist,
	}, nil
}

func (m *metricsImpl) attrs(meta OpMeta) metric.MeasurementOption {
	attrs := []attribute.KeyValue{
		attribute.String("op.id", meta.OpID()),
		attribute.String("op.name", meta.Name),
	}
	if meta.Component != "" {
		attrs = append(attrs, attribute.String("op.component", meta.Component))
	}
	return metric.WithAttributes(attrs...)
}

// RecordExecution records metrics for an operation execution.
func (m *metricsImpl) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
	opt := m.attrs(meta)

	m.totalCount.Add(ctx, 1, opt)

	if err != nil {
		m.errorCount.Add(ctx, 1, opt)
	}

	m.durationHist.Record(ctx, float64(duration.Milliseconds()), opt)
}

// RecordSuppressed records a suppressed invocation.
func (m *metricsImpl) RecordSuppressed(ctx context.Context, meta OpMeta) {
	m.suppressedCount.Add(ctx, 1, m.attrs(meta))
}

// noopMetrics is a metrics implementation that does nothing.
type noopMetrics struct{}

func (noopMetrics) RecordExecution(ctx context.Context, meta OpMeta, duration time.Duration, err error) {
}

func (noopMetrics) RecordSuppressed(ctx context.Context, meta OpMeta) {}
