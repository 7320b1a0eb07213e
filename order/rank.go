package order

// Compare reports whether a sorts after b, meaning the scan should keep
// advancing past b when ranking a.
type Compare[K any] func(a, b K) bool

// Rank returns the insertion index for v in values, which must already be
// ordered consistently with compare. The scan advances while compare(v, e)
// holds for each existing element e, so v lands before the first element it
// does not sort after. Equal elements keep v in front of them.
func Rank[T any](values []T, v T, compare Compare[T]) int {
	index := 0
	for _, existing := range values {
		if !compare(v, existing) {
			break
		}
		index++
	}
	return index
}

// RankBy is Rank with a key projector applied to both operands before
// comparison.
func RankBy[T, K any](values []T, v T, compare Compare[K], key func(T) K) int {
	index := 0
	kv := key(v)
	for _, existing := range values {
		if !compare(kv, key(existing)) {
			break
		}
		index++
	}
	return index
}

// Insert places v at its ranked index and returns the resulting slice.
// The input slice may be reused; callers should keep the return value.
func Insert[T any](values []T, v T, compare Compare[T]) []T {
	return insertAt(values, v, Rank(values, v, compare))
}

// InsertBy is Insert with a key projector.
func InsertBy[T, K any](values []T, v T, compare Compare[K], key func(T) K) []T {
	return insertAt(values, v, RankBy(values, v, compare, key))
}

func insertAt[T any](values []T, v T, i int) []T {
	values = append(values, v)
	copy(values[i+1:], values[i:])
	values[i] = v
	return values
}
