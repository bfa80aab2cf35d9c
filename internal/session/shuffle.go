package session

import "math/rand"

// Shuffle returns a shuffled copy of items. The same seed always yields the same order.
func Shuffle[T any](items []T, rnd *rand.Rand) []T {
	out := make([]T, len(items))
	copy(out, items)
	rnd.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// NewRand returns a random source for seed
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
