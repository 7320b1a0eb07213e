package observe

import (
	"context"
	"time"
)

// Op is the operation signature that Middleware wraps. The coordination
// wrappers (throttled handlers, dedup computations, poll bodies) all reduce
// to this shape.
type Op func(ctx context.Context) error

// Middleware wraps operations with observability (tracing, metrics, logging).
//
// Contract:
//   - Concurrency: Wrap() returns a thread-safe Op.
//   - Context: propagates context through tracing spans.
//   - Errors: errors from the wrapped operation are recorded and propagated
//     unchanged.
type Middleware struct {
	tracer  Tracer
	metrics Metrics
	logger  Logger

	// suppressed classifies errors that mean "skipped, not failed", such
	// as a throttle sentinel. They are counted separately and logged at
	// debug level.
	suppressed func(error) bool
}

// NewMiddleware creates a new Middleware with the given observability
// components.
func NewMiddleware(tracer Tracer, metrics Metrics, logger Logger) *Middleware {
	return &Middleware{
		tracer:  tracer,
		metrics: metrics,
		logger:  logger,
	}
}

// WithSuppressedClassifier sets the predicate that marks an error as a
// suppressed invocation rather than a failure.
func (m *Middleware) WithSuppressedClassifier(fn func(error) bool) *Middleware {
	m.suppressed = fn
	return m
}

// Wrap wraps an operation with tracing, metrics, and logging.
func (m *Middleware) Wrap(meta OpMeta, fn Op) Op {
	return func(ctx context.Context) error {
		ctx, span := m.tracer.StartSpan(ctx, meta)

		start := time.Now()
		err := fn(ctx)
		duration := time.Since(start)

		if err != nil && m.suppressed != nil && m.suppressed(err) {
			m.tracer.EndSpan(span, nil)
			m.metrics.RecordSuppressed(ctx, meta)
			m.logger.WithOp(meta).Debug(ctx, "operation suppressed")
			return err
		}

		m.tracer.EndSpan(span, err)
		m.metrics.RecordExecution(ctx, meta, duration, err)

		opLogger := m.logger.WithOp(meta)
		fields := []Field{
			{Key: "duration_ms", Value: float64(duration.Milliseconds())},
		}

		if err != nil {
			fields = append(fields, Field{Key: "error", Value: err.Error()})
			opLogger.Error(ctx, "operation failed", fields...)
		} else {
			opLogger.Debug(ctx, "operation completed", fields...)
		}

		return err
	}
}

// NopMiddleware returns a Middleware whose telemetry sinks all discard.
// Useful as a default when instrumentation is optional.
func NopMiddleware() *Middleware {
	return NewMiddleware(newNoopTracer(), noopMetrics{}, NopLogger())
}

// MiddlewareFromObserver creates a Middleware from an Observer.
func MiddlewareFromObserver(obs Observer) (*Middleware, error) {
	tracer := newTracer(obs.Tracer())

	metrics, err := newMetrics(obs.Meter())
	if err != nil {
		return nil, err
	}

	return NewMiddleware(tracer, metrics, obs.Logger()), nil
}
