package render

import (
	"hash/fnv"
	"math/rand/v2"
)

// Sample returns up to n distinct items chosen at random. The choice is
// fully determined by seed, so the same payload always yields the same
// sample and a new payload reshuffles it.
func Sample[T any](items []T, n int, seed string) []T {
	if n > len(items) {
		n = len(items)
	}
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewPCG(seedWords(seed)))
	perm := rng.Perm(len(items))

	out := make([]T, 0, n)
	for _, i := range perm[:n] {
		out = append(out, items[i])
	}
	return out
}

func seedWords(seed string) (uint64, uint64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	first := h.Sum64()
	_, _ = h.Write([]byte{0xff})
	return first, h.Sum64()
}
