package query

import (
	"sort"

	"github.com/nicerx/waterfallidx/store"
)

// SummaryResult is a resampled slice of a band's max/avg/min pyramid.
type SummaryResult struct {
	Freqs []float64
	Min   []float64
	Max   []float64
	Mean  []float64
}

// SelectTier picks the coarsest pyramid level whose native bin count
// within [lo, hi] is at least targetBins, scanning coarsest to finest,
// falling back to level 0 (full resolution) if none qualifies.
func SelectTier(tiers store.TierDoc, lo, hi float64, targetBins int) int {
	for lvl := len(tiers.Levels) - 1; lvl >= 0; lvl-- {
		if countInRange(tiers.Freqs(lvl), lo, hi) >= targetBins {
			return lvl
		}
	}
	return 0
}

func countInRange(axis []float64, lo, hi float64) int {
	n := len(axis)
	a := sort.Search(n, func(i int) bool { return axis[i] >= lo })
	b := sort.Search(n, func(i int) bool { return axis[i] > hi })
	if b < a {
		b = a
	}
	return b - a
}

// Summary resamples a band's summary pyramid to targetBins points over
// [f0, f1] (nil bounds span the band's full range), linearly
// interpolating from the coarsest tier with enough native resolution.
// A window that is inverted or falls entirely outside the band's
// range clamps to empty, and Summary returns a zero-length result
// rather than synthesizing duplicate points.
func Summary(tiers store.TierDoc, f0, f1 *float64, targetBins int) SummaryResult {
	lo, hi := tiers.FStart, tiers.FStop
	if f0 != nil && *f0 > lo {
		lo = *f0
	}
	if f1 != nil && *f1 < hi {
		hi = *f1
	}
	if hi <= lo {
		return SummaryResult{}
	}
	if targetBins < 1 {
		targetBins = 1
	}

	level := SelectTier(tiers, lo, hi, targetBins)
	axis := tiers.Freqs(level)
	lv := tiers.Levels[level]

	out := SummaryResult{
		Freqs: make([]float64, targetBins),
		Min:   make([]float64, targetBins),
		Max:   make([]float64, targetBins),
		Mean:  make([]float64, targetBins),
	}
	for i := 0; i < targetBins; i++ {
		f := lo
		if targetBins > 1 {
			f = lo + (hi-lo)*float64(i)/float64(targetBins-1)
		}
		out.Freqs[i] = f
		out.Min[i] = interpFloat32At(axis, lv.Min, f)
		out.Max[i] = interpFloat32At(axis, lv.Max, f)
		out.Mean[i] = interpFloat32At(axis, lv.Mean, f)
	}
	return out
}

func interpFloat32At(axis []float64, vals []float32, f float64) float64 {
	n := len(axis)
	if n == 1 {
		return float64(vals[0])
	}
	if f <= axis[0] {
		return float64(vals[0])
	}
	if f >= axis[n-1] {
		return float64(vals[n-1])
	}
	j := sort.Search(n, func(i int) bool { return axis[i] >= f })
	if axis[j] == f {
		return float64(vals[j])
	}
	x0, x1 := axis[j-1], axis[j]
	y0, y1 := float64(vals[j-1]), float64(vals[j])
	t := (f - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
