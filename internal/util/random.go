package util

import (
	"math/rand/v2"
	"time"
)

// NewRand returns a random source owned by a single quiz session.
// It is seeded from the runtime's random state and the clock, never deterministically.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), uint64(time.Now().UnixNano())))
}

// Sample returns k distinct elements of items chosen uniformly at random, in random order.
// It panics if k exceeds len(items).
func Sample[T any](rng *rand.Rand, items []T, k int) []T {
	picked := make([]T, 0, k)
	for _, i := range rng.Perm(len(items))[:k] {
		picked = append(picked, items[i])
	}
	return picked
}
