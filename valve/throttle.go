package valve

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// throttleConfig holds the options for a throttled wrapper.
type throttleConfig[V any] struct {
	limit  int
	signal V
	shared *Valve[string]
}

// ThrottleOption configures Throttle.
type ThrottleOption[V any] func(*throttleConfig[V])

// WithLimit sets how many invocations may run per cooldown window.
// Default: 1.
func WithLimit[V any](limit int) ThrottleOption[V] {
	return func(c *throttleConfig[V]) {
		c.limit = limit
	}
}

// WithSignal sets the value returned alongside ErrThrottled when a call is
// suppressed. Default: the zero value.
func WithSignal[V any](signal V) ThrottleOption[V] {
	return func(c *throttleConfig[V]) {
		c.signal = signal
	}
}

// WithSharedValve makes the wrapper track its invocations in an existing
// valve instead of a private one. The wrapper still counts only its own
// entries; sharing just makes them visible to other classifications over
// the same valve.
func WithSharedValve[V any](v *Valve[string]) ThrottleOption[V] {
	return func(c *throttleConfig[V]) {
		c.shared = v
	}
}

// Throttle wraps fn with a fixed cooldown keyed on the wrapper's identity,
// independent of arguments. While limit invocations are already inside
// their period, further calls return the configured signal value and
// ErrThrottled without invoking fn.
func Throttle[V any](fn func(context.Context) (V, error), period time.Duration, opts ...ThrottleOption[V]) func(context.Context) (V, error) {
	cfg := throttleConfig[V]{limit: 1}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.limit <= 0 {
		cfg.limit = 1
	}

	v := cfg.shared
	if v == nil {
		v = New[string]()
	}

	// Each wrapper gets its own tag so shared valves keep wrappers apart.
	tag := uuid.NewString()
	mine := func(s string) bool { return s == tag }

	return func(ctx context.Context) (V, error) {
		if room := v.Check(tag, period, cfg.limit, mine, false); room <= 0 {
			return cfg.signal, ErrThrottled
		}
		return fn(ctx)
	}
}
