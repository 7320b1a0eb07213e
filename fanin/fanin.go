// Package fanin collects the results of a fixed batch of independently
// running tasks in the order they finish.
//
// Go schedules every task immediately; each one delivers its outcome onto a
// shared handoff channel the moment it completes. Next pops the earliest
// available completion, blocking the consumer only while none is ready.
// After exactly as many results as tasks, the sequence is drained. A Mux is
// not restartable.
package fanin

import (
	"context"
	"errors"
	"sync"
)

// ErrDrained is returned by Next once every task's result has been consumed.
var ErrDrained = errors.New("fanin: all results consumed")

// Task is a unit of work scheduled by Go.
type Task[V any] func(ctx context.Context) (V, error)

// Result is one task's outcome. Index is the task's submission position,
// not its completion rank.
type Result[V any] struct {
	Index int
	Value V
	Err   error
}

// Mux yields task results in completion order.
//
// Contract:
// - Concurrency: safe for concurrent use, though results are typically
//   consumed from one goroutine.
// - Ordering: strictly completion order; ties resolve by whichever
//   completion lands on the handoff channel first.
type Mux[V any] struct {
	handoff chan Result[V]

	mu        sync.Mutex
	remaining int
}

// Go schedules every task immediately and returns the Mux that collects
// their completions. The context is passed through to each task; cancelling
// it is the only way to stop tasks early.
func Go[V any](ctx context.Context, tasks ...Task[V]) *Mux[V] {
	m := &Mux[V]{
		handoff:   make(chan Result[V], len(tasks)),
		remaining: len(tasks),
	}

	for i, task := range tasks {
		go func(i int, task Task[V]) {
			v, err := task(ctx)
			m.handoff <- Result[V]{Index: i, Value: v, Err: err}
		}(i, task)
	}

	return m
}

// Next blocks until the earliest unconsumed completion is available and
// returns it. After all results have been consumed it returns ErrDrained.
// Context cancellation interrupts the wait without consuming a result.
func (m *Mux[V]) Next(ctx context.Context) (Result[V], error) {
	m.mu.Lock()
	if m.remaining == 0 {
		m.mu.Unlock()
		return Result[V]{}, ErrDrained
	}
	// Reserve the slot so concurrent Next calls never over-consume.
	m.remaining--
	m.mu.Unlock()

	select {
	case r := <-m.handoff:
		return r, nil
	case <-ctx.Done():
		m.mu.Lock()
		m.remaining++
		m.mu.Unlock()
		return Result[V]{}, ctx.Err()
	}
}

// Remaining returns how many results have not yet been consumed.
func (m *Mux[V]) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.remaining
}

// Collect consumes every remaining result and returns them in completion
// order. On context cancellation it returns what it has collected so far
// along with the context error.
func (m *Mux[V]) Collect(ctx context.Context) ([]Result[V], error) {
	var results []Result[V]
	for {
		r, err := m.Next(ctx)
		if errors.Is(err, ErrDrained) {
			return results, nil
		}
		if err != nil {
			return results, err
		}
		results = append(results, r)
	}
}
