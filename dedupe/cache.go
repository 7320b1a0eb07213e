package dedupe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonwraymond/cogs/observe"
)

// Func is the calling convention shared by a wrapped function and its
// deduplicating wrapper.
type Func[V any] func(ctx context.Context, args ...any) (V, error)

// Determine returns the wait budget for a call that found an identical
// computation already in flight: how long the caller should wait for that
// computation before giving up and starting its own. It receives the full
// argument tuple of the call.
type Determine func(ctx context.Context, args []any) (time.Duration, error)

// Config configures a Cache.
type Config struct {
	// Determine supplies the per-call wait budget. Required.
	Determine Determine

	// MaxSize caps how many results are admitted to the cache. Once
	// reached, further keys are computed but never stored; existing
	// entries are never evicted. <= 0 means unbounded.
	MaxSize int

	// Keyer derives state keys from arguments.
	// Default: DefaultKeyer.
	Keyer Keyer

	// Logger receives debug-level cache events.
	// Default: discard.
	Logger observe.Logger
}

// Cache deduplicates and memoizes calls to a single function, keyed by
// argument tuple.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Single flight: best-effort with bounded patience; duplicate invocation
//   is possible when a waiter's budget runs out first.
// - Failure: an error from the wrapped function propagates and nothing is
//   cached, but the pending marker is always cleared.
type Cache[V any] struct {
	fn        Func[V]
	determine Determine
	maxSize   int
	keyer     Keyer
	logger    observe.Logger

	mu      sync.Mutex
	entries map[string]V
	pending map[string]chan struct{}
}

// New creates a Cache around fn.
func New[V any](fn Func[V], cfg Config) (*Cache[V], error) {
	if fn == nil {
		return nil, errors.New("dedupe: function is required")
	}
	if cfg.Determine == nil {
		return nil, errors.New("dedupe: determine is required")
	}
	if cfg.Keyer == nil {
		cfg.Keyer = NewDefaultKeyer()
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Cache[V]{
		fn:        fn,
		determine: cfg.Determine,
		maxSize:   cfg.MaxSize,
		keyer:     cfg.Keyer,
		logger:    cfg.Logger,
		entries:   make(map[string]V),
		pending:   make(map[string]chan struct{}),
	}, nil
}

// Do calls the wrapped function with args, deduplicating against concurrent
// identical calls and returning a cached result when one exists.
func (c *Cache[V]) Do(ctx context.Context, args ...any) (V, error) {
	var zero V

	key, err := c.keyer.Key(args)
	if err != nil {
		return zero, err
	}

	c.mu.Lock()
	marker, inflight := c.pending[key]
	c.mu.Unlock()

	if inflight {
		budget, err := c.determine(ctx, args)
		if err != nil {
			return zero, fmt.Errorf("dedupe: determine: %w", err)
		}
		if err := c.await(ctx, key, marker, budget); err != nil {
			return zero, err
		}
	}

	c.mu.Lock()
	if v, ok := c.entries[key]; ok {
		c.mu.Unlock()
		c.logger.Debug(ctx, "dedupe cache hit", observe.F("key", key))
		return v, nil
	}
	marker = make(chan struct{})
	c.pending[key] = marker
	c.mu.Unlock()

	v, err := c.fn(ctx, args...)

	c.mu.Lock()
	// A patience-exhausted caller may have replaced the marker; only the
	// owner clears it.
	if c.pending[key] == marker {
		delete(c.pending, key)
	}
	if err == nil && (c.maxSize <= 0 || len(c.entries) < c.maxSize) {
		c.entries[key] = v
	}
	c.mu.Unlock()
	close(marker)

	if err != nil {
		return zero, err
	}
	return v, nil
}

// await waits on an in-flight computation's marker for at most budget.
// Budget exhaustion is not an error; it just ends the waiting.
func (c *Cache[V]) await(ctx context.Context, key string, marker <-chan struct{}, budget time.Duration) error {
	if budget <= 0 {
		return nil
	}

	c.logger.Debug(ctx, "dedupe awaiting in-flight call",
		observe.F("key", key), observe.F("budget_ms", budget.Milliseconds()))

	timer := time.NewTimer(budget)
	defer timer.Stop()

	select {
	case <-marker:
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Func returns a wrapper with the same calling convention as the wrapped
// function.
func (c *Cache[V]) Func() Func[V] {
	return c.Do
}

// Len returns the number of cached entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
