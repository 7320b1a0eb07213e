package valve

import (
	"testing"
	"time"
)

func TestSling_TracksUnconditionally(t *testing.T) {
	s := NewSling[string]()

	for i := 0; i < 5; i++ {
		s.Check("x", time.Second, 2, 1, 1, any_[string])
	}

	// Limit 2 never gates admission.
	if got := s.Len(); got != 5 {
		t.Errorf("Len() = %d, want 5", got)
	}
}

func TestSling_ReturnsClampedRoom(t *testing.T) {
	s := NewSling[string]()

	if got := s.Check("a", time.Second, 2, 1, 1, any_[string]); got != 2 {
		t.Errorf("first Check() = %d, want 2", got)
	}
	if got := s.Check("b", time.Second, 2, 1, 1, any_[string]); got != 1 {
		t.Errorf("second Check() = %d, want 1", got)
	}
	if got := s.Check("c", time.Second, 2, 1, 1, any_[string]); got != 0 {
		t.Errorf("third Check() = %d, want 0", got)
	}
	// Over the limit the room clamps at zero instead of going negative.
	if got := s.Check("d", time.Second, 2, 1, 1, any_[string]); got != 0 {
		t.Errorf("fourth Check() = %d, want 0", got)
	}
}

func TestSling_PeriodScalesWithRoom(t *testing.T) {
	// With trail=0 and rate=1 the effective period is period*left/limit:
	// an empty sling holds entries for the full period, a busy one for a
	// fraction of it.
	const period = 200 * time.Millisecond

	empty := NewSling[string]()
	empty.Check("probe", period, 4, 0, 1, any_[string]) // left=4 -> hold 200ms

	busy := NewSling[string]()
	busy.Observe("load-1", time.Minute)
	busy.Observe("load-2", time.Minute)
	busy.Observe("load-3", time.Minute)
	busy.Check("probe", period, 4, 0, 1, any_[string]) // left=1 -> hold 50ms

	time.Sleep(120 * time.Millisecond)

	if got := empty.Len(); got != 1 {
		t.Errorf("empty sling Len() = %d at 120ms, probe should still be held", got)
	}
	if got := busy.Len(); got != 3 {
		t.Errorf("busy sling Len() = %d at 120ms, probe should have expired", got)
	}

	time.Sleep(150 * time.Millisecond)

	if got := empty.Len(); got != 0 {
		t.Errorf("empty sling Len() = %d after full period, want 0", got)
	}
}

func TestSling_RateScalesPeriod(t *testing.T) {
	s := NewSling[string]()

	// rate=0.25 shrinks the hold from 200ms to 50ms.
	s.Check("probe", 200*time.Millisecond, 1, 0, 0.25, any_[string])

	time.Sleep(120 * time.Millisecond)

	if got := s.Len(); got != 0 {
		t.Errorf("Len() = %d, rate-scaled hold should have expired", got)
	}
}

func TestSling_TrailKeepsHoldAboveZero(t *testing.T) {
	s := NewSling[string]()
	s.Observe("load", time.Minute)

	// Full valve: left=0, trail=1 still yields a positive hold.
	s.Check("probe", 100*time.Millisecond, 1, 1, 1, any_[string])

	if got := s.Len(); got != 2 {
		t.Errorf("Len() = %d immediately after Check, want 2", got)
	}
}
