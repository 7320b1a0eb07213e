package poller

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func waitDone(t *testing.T, task *Task) {
	t.Helper()
	select {
	case <-task.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("task did not finish in time")
	}
}

func TestRun_LoopsUntilStop(t *testing.T) {
	var calls atomic.Int32
	task := Run(context.Background(), func(ctx context.Context) error {
		if calls.Add(1) >= 3 {
			return Stop
		}
		return nil
	})

	waitDone(t, task)
	if got := calls.Load(); got != 3 {
		t.Errorf("calls = %d, want 3", got)
	}
	if err := task.Err(); err != nil {
		t.Errorf("Err() = %v, want nil after clean stop", err)
	}
}

func TestRun_StopMatchedByIdentityNotText(t *testing.T) {
	lookalike := errors.New("poller: stop requested")

	var calls atomic.Int32
	task := Run(context.Background(), func(ctx context.Context) error {
		if calls.Add(1) == 1 {
			return lookalike
		}
		t.Error("loop continued past a non-sentinel error")
		return Stop
	})

	waitDone(t, task)
	if err := task.Err(); !errors.Is(err, lookalike) {
		t.Errorf("Err() = %v, want the lookalike error recorded", err)
	}
}

func TestRun_WrappedStopEndsLoop(t *testing.T) {
	task := Run(context.Background(), func(ctx context.Context) error {
		return errors.Join(Stop, errors.New("final state reached"))
	})

	waitDone(t, task)
	if err := task.Err(); err != nil {
		t.Errorf("Err() = %v, want nil for wrapped stop", err)
	}
}

func TestRun_GateHoldsFirstCall(t *testing.T) {
	gate := make(chan struct{})
	var calls atomic.Int32

	task := Run(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return Stop
	}, Config{Gate: gate})

	time.Sleep(50 * time.Millisecond)
	if got := calls.Load(); got != 0 {
		t.Fatalf("calls before gate = %d, want 0", got)
	}

	close(gate)
	waitDone(t, task)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls after gate = %d, want 1", got)
	}
}

func TestRun_CancelWhileGated(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	gate := make(chan struct{})

	task := Run(ctx, func(ctx context.Context) error {
		t.Error("execute ran despite closed context")
		return Stop
	}, Config{Gate: gate})

	cancel()
	waitDone(t, task)
	if err := task.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", err)
	}
}

func TestRun_CancelStopsLoop(t *testing.T) {
	started := make(chan struct{})
	var once atomic.Bool

	task := Run(context.Background(), func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		return nil
	}, Config{Interval: 5 * time.Millisecond})

	<-started
	task.Cancel()
	waitDone(t, task)
	if err := task.Err(); !errors.Is(err, context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", err)
	}
}

func TestRun_ErrorTerminatesLoop(t *testing.T) {
	boom := errors.New("backend unreachable")
	var calls atomic.Int32

	task := Run(context.Background(), func(ctx context.Context) error {
		calls.Add(1)
		return boom
	})

	waitDone(t, task)
	if got := calls.Load(); got != 1 {
		t.Errorf("calls = %d, want 1", got)
	}
	if err := task.Err(); !errors.Is(err, boom) {
		t.Errorf("Err() = %v, want %v", err, boom)
	}
}

func TestRun_IntervalPacesIterations(t *testing.T) {
	var calls atomic.Int32
	start := time.Now()

	task := Run(context.Background(), func(ctx context.Context) error {
		if calls.Add(1) >= 4 {
			return Stop
		}
		return nil
	}, Config{Interval: 30 * time.Millisecond})

	waitDone(t, task)
	// First call is immediate, the next three each wait one interval.
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("4 iterations took %v, want at least ~90ms of pacing", elapsed)
	}
}
