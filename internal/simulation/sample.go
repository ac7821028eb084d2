package simulation

import "math/rand"

// sample draws between min and max (inclusive) distinct items from pool.
// The pool is never modified; the returned slice is always non-nil.
func sample[T any](r *rand.Rand, pool []T, min, max int) []T {
	if max > len(pool) {
		max = len(pool)
	}
	if min > max {
		min = max
	}
	k := min
	if max > min {
		k += r.Intn(max - min + 1)
	}
	out := make([]T, 0, k)
	for _, i := range r.Perm(len(pool))[:k] {
		out = append(out, pool[i])
	}
	return out
}

// pick returns one uniformly chosen element of a non-empty pool.
func pick[T any](r *rand.Rand, pool []T) T {
	return pool[r.Intn(len(pool))]
}
