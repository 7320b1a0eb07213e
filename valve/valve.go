package valve

import (
	"context"
	"sync"
	"time"

	"github.com/jonwraymond/cogs/observe"
)

// Predicate classifies active values. Count and Left use it to decide which
// values belong to the class being limited.
type Predicate[T comparable] func(T) bool

// Config configures a Valve.
type Config struct {
	// Logger receives debug-level tracking events.
	// Default: discard.
	Logger observe.Logger
}

// Valve tracks a rolling set of active values, each held for its own period.
//
// Contract:
// - Concurrency: safe for concurrent use.
// - Ordering: the active sequence preserves insertion order.
// - Expiry: a tracked value owns exactly one pending removal; when its
//   period elapses the first occurrence equal to it is removed.
type Valve[T comparable] struct {
	mu     sync.Mutex
	active []T
	logger observe.Logger
}

// New creates a new Valve.
func New[T comparable](config ...Config) *Valve[T] {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}
	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	return &Valve[T]{logger: cfg.Logger}
}

// Len returns the total number of active values.
func (v *Valve[T]) Len() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.active)
}

// State returns a snapshot of the active sequence in insertion order.
func (v *Valve[T]) State() []T {
	v.mu.Lock()
	defer v.mu.Unlock()

	out := make([]T, len(v.active))
	copy(out, v.active)
	return out
}

// Count returns the number of active values matching the predicate.
func (v *Valve[T]) Count(match Predicate[T]) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.countLocked(match)
}

// Left returns limit minus the matching count. It may be negative when the
// class is already over its limit.
func (v *Valve[T]) Left(match Predicate[T], limit int) int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return limit - v.countLocked(match)
}

// Observe tracks value and schedules its removal after period. The returned
// Hold releases the value early if needed.
func (v *Valve[T]) Observe(value T, period time.Duration) *Hold {
	v.mu.Lock()
	v.active = append(v.active, value)
	v.mu.Unlock()

	v.logger.Debug(context.Background(), "valve observing value",
		observe.F("period_ms", period.Milliseconds()))

	return v.schedule(value, period)
}

// Check performs the admission test and, when it passes (or bypass is set),
// tracks value for period. The returned room is computed before this call's
// own admission: a caller sees "was there room", not "is there room after
// me". Hard caps therefore require bypass=false and serialized callers.
func (v *Valve[T]) Check(value T, period time.Duration, limit int, match Predicate[T], bypass bool) int {
	v.mu.Lock()
	left := limit - v.countLocked(match)
	admitted := bypass || left > 0
	if admitted {
		v.active = append(v.active, value)
	}
	v.mu.Unlock()

	if admitted {
		v.schedule(value, period)
	}
	return left
}

func (v *Valve[T]) countLocked(match Predicate[T]) int {
	n := 0
	for _, value := range v.active {
		if match(value) {
			n++
		}
	}
	return n
}

// schedule arms the expiry for an already-appended value.
func (v *Valve[T]) schedule(value T, period time.Duration) *Hold {
	remove := func() { v.discard(value) }
	return &Hold{
		timer:  time.AfterFunc(period, remove),
		remove: remove,
	}
}

// discard removes the first occurrence of value from the active sequence.
func (v *Valve[T]) discard(value T) {
	v.mu.Lock()
	defer v.mu.Unlock()

	for i, cur := range v.active {
		if cur == value {
			v.active = append(v.active[:i], v.active[i+1:]...)
			return
		}
	}
}

// Hold is the handle to a scheduled removal.
type Hold struct {
	timer  *time.Timer
	remove func()
}

// Release cancels the pending expiry and removes the value immediately.
// Calling Release after the expiry has fired is a no-op.
func (h *Hold) Release() {
	if h.timer.Stop() {
		h.remove()
	}
}
