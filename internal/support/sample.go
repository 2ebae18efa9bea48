package support

import "math/rand"

// ReservoirSample draws k indices from [0,n) without replacement using
// Algorithm R, for random-sample based statistics (e.g. estimating
// per-sequence composition without scanning every base). Deterministic
// given rnd, so callers seed their own *rand.Rand for reproducible runs.
func ReservoirSample(n, k int, rnd *rand.Rand) []int {
	if k > n {
		k = n
	}
	sample := make([]int, k)
	for i := 0; i < k; i++ {
		sample[i] = i
	}
	for i := k; i < n; i++ {
		j := rnd.Intn(i + 1)
		if j < k {
			sample[j] = i
		}
	}
	return sample
}

// Assert panics with msg if cond is false. Reserved for invariants that
// must never fail in correct code (spec.md 9's "process abort" path for
// broken invariants), never for expected input-format or configuration
// failures -- those return an *esaerr.Error instead.
func Assert(cond bool, msg string) {
	if !cond {
		panic(msg)
	}
}
