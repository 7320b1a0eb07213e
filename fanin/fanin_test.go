package fanin

import (
	"context"
	"errors"
	"testing"
	"time"
)

// sleeper returns a task that completes with value after delay.
func sleeper(value string, delay time.Duration) Task[string] {
	return func(ctx context.Context) (string, error) {
		select {
		case <-time.After(delay):
			return value, nil
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
}

func TestMux_CompletionOrder(t *testing.T) {
	ctx := context.Background()

	m := Go(ctx,
		sleeper("slow", 90*time.Millisecond),
		sleeper("fast", 10*time.Millisecond),
		sleeper("mid", 50*time.Millisecond),
	)

	want := []string{"fast", "mid", "slow"}
	for i, w := range want {
		r, err := m.Next(ctx)
		if err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
		if r.Value != w {
			t.Errorf("Next() #%d = %q, want %q", i, r.Value, w)
		}
	}
}

func TestMux_ExactlyNThenDrained(t *testing.T) {
	ctx := context.Background()

	m := Go(ctx,
		sleeper("a", 5*time.Millisecond),
		sleeper("b", 10*time.Millisecond),
	)

	for i := 0; i < 2; i++ {
		if _, err := m.Next(ctx); err != nil {
			t.Fatalf("Next() #%d error = %v", i, err)
		}
	}

	if _, err := m.Next(ctx); !errors.Is(err, ErrDrained) {
		t.Errorf("Next() after drain error = %v, want ErrDrained", err)
	}
	if got := m.Remaining(); got != 0 {
		t.Errorf("Remaining() = %d, want 0", got)
	}
}

func TestMux_IndexIsSubmissionPosition(t *testing.T) {
	ctx := context.Background()

	m := Go(ctx,
		sleeper("second", 50*time.Millisecond),
		sleeper("first", 10*time.Millisecond),
	)

	r, err := m.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r.Index != 1 || r.Value != "first" {
		t.Errorf("Next() = {Index:%d Value:%q}, want {Index:1 Value:first}", r.Index, r.Value)
	}
}

func TestMux_TaskErrorsDelivered(t *testing.T) {
	ctx := context.Background()
	wantErr := errors.New("task failed")

	m := Go(ctx,
		func(ctx context.Context) (string, error) { return "", wantErr },
		sleeper("ok", 20*time.Millisecond),
	)

	r, err := m.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !errors.Is(r.Err, wantErr) {
		t.Errorf("first completion Err = %v, want %v", r.Err, wantErr)
	}

	r, err = m.Next(ctx)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r.Err != nil || r.Value != "ok" {
		t.Errorf("second completion = {%q, %v}, want {ok, nil}", r.Value, r.Err)
	}
}

func TestMux_NextBlocksUntilCompletion(t *testing.T) {
	ctx := context.Background()

	m := Go(ctx, sleeper("late", 60*time.Millisecond))

	start := time.Now()
	if _, err := m.Next(ctx); err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 40*time.Millisecond {
		t.Errorf("Next() returned after %v, want it to block ~60ms", elapsed)
	}
}

func TestMux_ContextCancellationDoesNotConsume(t *testing.T) {
	m := Go(context.Background(), sleeper("late", 80*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := m.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("Next() error = %v, want deadline exceeded", err)
	}
	if got := m.Remaining(); got != 1 {
		t.Errorf("Remaining() = %d after cancelled wait, want 1", got)
	}

	// The result is still deliverable afterwards.
	r, err := m.Next(context.Background())
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if r.Value != "late" {
		t.Errorf("Next() = %q, want late", r.Value)
	}
}

func TestMux_Collect(t *testing.T) {
	ctx := context.Background()

	m := Go(ctx,
		sleeper("c", 50*time.Millisecond),
		sleeper("a", 10*time.Millisecond),
		sleeper("b", 30*time.Millisecond),
	)

	results, err := m.Collect(ctx)
	if err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	want := []string{"a", "b", "c"}
	if len(results) != len(want) {
		t.Fatalf("Collect() returned %d results, want %d", len(results), len(want))
	}
	for i, w := range want {
		if results[i].Value != w {
			t.Errorf("results[%d] = %q, want %q", i, results[i].Value, w)
		}
	}
}

func TestMux_EmptyBatch(t *testing.T) {
	ctx := context.Background()

	m := Go[string](ctx)

	if _, err := m.Next(ctx); !errors.Is(err, ErrDrained) {
		t.Errorf("Next() on empty batch error = %v, want ErrDrained", err)
	}
}
