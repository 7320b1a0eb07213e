// Package poller runs a function repeatedly in a background task until the
// function itself asks to stop.
//
// The loop has no notion of success or schedule beyond its optional pacing:
// it simply invokes the function again once the previous invocation
// returns. A gate channel can hold the loop back until some one-shot start
// condition resolves. The function ends the loop by returning Stop; any
// other error terminates the task and is recorded on it. The package adds
// no retry or backoff policy.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/jonwraymond/cogs/observe"
)

// Stop is the sentinel a poll function returns to end its loop cleanly.
// The loop matches it with errors.Is, so it must be this value or wrap
// it; an equal-looking error created elsewhere does not stop the loop.
var Stop = errors.New("poller: stop requested")

// Config configures a polling task.
type Config struct {
	// Gate, when set, holds the loop back until the channel is closed or
	// delivers one value.
	Gate <-chan struct{}

	// Interval paces iterations so consecutive invocations start at
	// least this far apart. Zero means no pacing.
	Interval time.Duration

	// Logger receives task lifecycle events.
	// Default: discard.
	Logger observe.Logger
}

// Task is the handle to a running poll loop.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// Run schedules execute in a background task and returns its handle.
// The loop ends when execute returns Stop (clean), execute returns any
// other error (recorded), or the context is cancelled.
func Run(ctx context.Context, execute func(context.Context) error, config ...Config) *Task {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go t.loop(ctx, execute, cfg)
	return t
}

func (t *Task) loop(ctx context.Context, execute func(context.Context) error, cfg Config) {
	defer close(t.done)

	if cfg.Gate != nil {
		cfg.Logger.Debug(ctx, "poller awaiting gate")
		select {
		case <-cfg.Gate:
		case <-ctx.Done():
			t.setErr(ctx.Err())
			return
		}
	}

	var limiter *rate.Limiter
	if cfg.Interval > 0 {
		limiter = rate.NewLimiter(rate.Every(cfg.Interval), 1)
	}

	for {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				t.setErr(err)
				return
			}
		} else if err := ctx.Err(); err != nil {
			t.setErr(err)
			return
		}

		err := execute(ctx)
		switch {
		case errors.Is(err, Stop):
			cfg.Logger.Debug(ctx, "poller stopped by sentinel")
			return
		case err != nil:
			cfg.Logger.Error(ctx, "poller terminated", observe.F("error", err.Error()))
			t.setErr(err)
			return
		}
	}
}

func (t *Task) setErr(err error) {
	t.mu.Lock()
	t.err = err
	t.mu.Unlock()
}

// Done is closed when the loop has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err reports why the loop exited: nil after a clean Stop, the context
// error after cancellation, or the error execute returned. Only meaningful
// once Done is closed.
func (t *Task) Err() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.err
}

// Cancel stops the loop at its next suspension point. No cleanup callback
// is invoked.
func (t *Task) Cancel() {
	t.cancel()
}
