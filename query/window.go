package query

import "sort"

// clampIndexRange enforces the half-open range invariant both axis
// helpers below share with the original dataset service's
// window-clamping helper: a degenerate or inverted window is widened
// to hi = lo+1, and the range never runs past n. A window starting at
// or past the last index (lo == n) therefore clamps to the empty range
// [n, n).
func clampIndexRange(n, lo, hi int) (int, int) {
	if hi <= lo {
		hi = lo + 1
	}
	if hi > n {
		hi = n
	}
	if lo > n {
		lo = n
	}
	return lo, hi
}

// WindowIndices returns the half-open index range [lo, hi) of a sorted
// relT vector covering [t0, t1] seconds since a band's unix0. A nil
// bound is unbounded on that side.
func WindowIndices(relT []int64, t0, t1 *float64) (int, int) {
	n := len(relT)
	lo, hi := 0, n
	if t0 != nil {
		lo = sort.Search(n, func(i int) bool { return float64(relT[i]) >= *t0 })
	}
	if t1 != nil {
		hi = sort.Search(n, func(i int) bool { return float64(relT[i]) > *t1 })
	}
	return clampIndexRange(n, lo, hi)
}

// freqIndexRange returns the half-open index range [lo, hi) of a
// sorted frequency axis covering [f0, f1] hertz.
func freqIndexRange(freqs []float64, f0, f1 *float64) (int, int) {
	n := len(freqs)
	lo, hi := 0, n
	if f0 != nil {
		lo = sort.Search(n, func(i int) bool { return freqs[i] >= *f0 })
	}
	if f1 != nil {
		hi = sort.Search(n, func(i int) bool { return freqs[i] > *f1 })
	}
	return clampIndexRange(n, lo, hi)
}
