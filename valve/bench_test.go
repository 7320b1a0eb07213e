package valve

import (
	"testing"
	"time"
)

// BenchmarkValve_Check measures the admit path with a warm valve.
func BenchmarkValve_Check(b *testing.B) {
	v := New[int]()
	match := func(int) bool { return true }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Check(i, time.Millisecond, 1<<30, match, false)
	}
}

// BenchmarkValve_Count measures predicate scans over a populated valve.
func BenchmarkValve_Count(b *testing.B) {
	v := New[int]()
	for i := 0; i < 128; i++ {
		v.Observe(i, time.Hour)
	}
	even := func(n int) bool { return n%2 == 0 }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.Count(even)
	}
}

// BenchmarkSling_Check measures the adaptive admit path.
func BenchmarkSling_Check(b *testing.B) {
	s := NewSling[int]()
	match := func(int) bool { return true }

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s.Check(i, time.Millisecond, 1<<30, 0, 1, match)
	}
}
