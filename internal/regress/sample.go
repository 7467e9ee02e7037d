package regress

import "math/rand"

// SampleRange draws batch distinct indices from 0..n-1 via a fresh random
// permutation. Draws are without replacement within one call and independent
// across calls. A batch larger than n is clipped to n.
func SampleRange(rng *rand.Rand, n, batch int) []int {
	if batch > n {
		batch = n
	}
	return rng.Perm(n)[:batch]
}

// SampleFrom draws batch distinct indices from pool, clipping the batch to
// the pool size. The pool itself is not reordered.
func SampleFrom(rng *rand.Rand, pool []int, batch int) []int {
	if batch > len(pool) {
		batch = len(pool)
	}
	out := make([]int, batch)
	for i, p := range rng.Perm(len(pool))[:batch] {
		out[i] = pool[p]
	}
	return out
}
