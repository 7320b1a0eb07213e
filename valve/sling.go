package valve

import (
	"time"

	"github.com/jonwraymond/cogs/observe"
)

// Sling is a Valve whose hold periods scale with current occupancy instead
// of gating admission. Every checked value is tracked; the emptier the
// valve, the longer the hold, so backpressure builds proportionally to load
// rather than at a hard boundary.
type Sling[T comparable] struct {
	Valve[T]
}

// NewSling creates a new Sling.
func NewSling[T comparable](config ...Config) *Sling[T] {
	cfg := Config{}
	if len(config) > 0 {
		cfg = config[0]
	}

	if cfg.Logger == nil {
		cfg.Logger = observe.NopLogger()
	}

	s := &Sling[T]{}
	s.logger = cfg.Logger
	return s
}

// Check tracks value unconditionally, holding it for
//
//	period * ((left + trail) / limit) * rate
//
// where left is the pre-admission room for match under limit. Trail keeps
// the effective period above zero when the valve is full; rate scales the
// whole curve. Returns the pre-admission room clamped at zero.
func (s *Sling[T]) Check(value T, period time.Duration, limit int, trail, rate float64, match Predicate[T]) int {
	s.mu.Lock()
	left := limit - s.countLocked(match)
	effective := time.Duration(float64(period) * ((float64(left) + trail) / float64(limit)) * rate)
	s.active = append(s.active, value)
	s.mu.Unlock()

	s.schedule(value, effective)

	if left < 0 {
		return 0
	}
	return left
}
