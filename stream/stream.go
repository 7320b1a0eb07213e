// Package stream provides a two-phase progressive dispatcher.
//
// Handlers register into one of two groups. The bundle group runs
// concurrently and is fire-and-forget relative to the caller: Start kicks it
// off and moves on. The single group runs strictly in registration order,
// and the scan ends at the first handler that returns Stop. Registration
// order is semantically significant only for the single group.
//
// A Stream holds no per-run state, so Start may be called any number of
// times with different arguments.
package stream

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/cogs/observe"
)

// Verdict is a single-group handler's decision about the scan.
type Verdict int

const (
	// Continue lets the scan proceed to the next handler.
	Continue Verdict = iota

	// Stop ends the scan immediately.
	Stop
)

// Handler processes one dispatch. Bundle handlers' verdicts are ignored.
type Handler func(ctx context.Context, args ...any) (Verdict, error)

// Config configures a Stream.
type Config struct {
	// Logger receives debug-level dispatch events.
	// Default: discard.
	Logger observe.Logger
}

// Stream dispatches arguments to its registered handlers.
//
// Contract:
// - Concurrency: registration and Start are safe for concurrent use.
// - Ordering: single handlers run in registration order; bundle handlers
//   have no ordering.
type Stream struct {
	mu     sync.Mutex
	bundle []Handler
	single []Handler
	logger observe.Logger
}

// New creates a new Stream.
func New(config ...Config) *Stream {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Stream{logger: cfg.Logger}
}

// Bundle registers handlers into the concurrent group.
func (s *Stream) Bundle(handlers ...Handler) *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bundle = append(s.bundle, handlers...)
	return s
}

// Single registers handlers into the sequential group. Their registration
// order defines the scan order.
func (s *Stream) Single(handlers ...Handler) *Stream {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.single = append(s.single, handlers...)
	return s
}

// Run reports the outcome of one Start call.
type Run struct {
	// ID identifies the run in logs.
	ID string

	// Stopped reports whether a single handler returned Stop. A full
	// scan without a stop is a distinct outcome, not an error.
	Stopped bool

	// Handler is the index (in registration order) of the single handler
	// that returned Stop, or -1 when none did.
	Handler int

	group *errgroup.Group
}

// Wait joins the bundle phase, returning the first handler error.
func (r Run) Wait() error {
	if r.group == nil {
		return nil
	}
	return r.group.Wait()
}

// Start launches every bundle handler concurrently, then invokes single
// handlers in registration order until one returns Stop. Start does not
// wait for the bundle phase; use Run.Wait for that. An error from a single
// handler ends the scan and propagates immediately.
func (s *Stream) Start(ctx context.Context, args ...any) (Run, error) {
	s.mu.Lock()
	bundle := slices.Clone(s.bundle)
	single := slices.Clone(s.single)
	s.mu.Unlock()

	run := Run{
		ID:      uuid.NewString(),
		Handler: -1,
		group:   &errgroup.Group{},
	}

	s.logger.Debug(ctx, "stream run starting",
		observe.F("run_id", run.ID),
		observe.F("bundle", len(bundle)),
		observe.F("single", len(single)))

	for _, handler := range bundle {
		run.group.Go(func() error {
			_, err := handler(ctx, args...)
			return err
		})
	}

	for i, handler := range single {
		verdict, err := handler(ctx, args...)
		if err != nil {
			return run, fmt.Errorf("stream: single handler %d: %w", i, err)
		}
		if verdict == Stop {
			run.Stopped = true
			run.Handler = i
			s.logger.Debug(ctx, "stream run stopped",
				observe.F("run_id", run.ID), observe.F("handler", i))
			return run, nil
		}
	}

	s.logger.Debug(ctx, "stream run exhausted without stop",
		observe.F("run_id", run.ID))
	return run, nil
}
