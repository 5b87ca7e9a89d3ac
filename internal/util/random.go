package util

import "math/rand"

// PickRandom returns a uniformly chosen element of items using r.
// Panics if items is empty.
func PickRandom[T any](r *rand.Rand, items []T) T {
	if len(items) == 0 {
		panic("PickRandom: empty slice")
	}
	return items[r.Intn(len(items))]
}
