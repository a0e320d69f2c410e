package build

import "sort"

// Reconcile resamples power, given on its own axis freqs, onto
// canonical via piecewise-linear interpolation. Points outside the
// record's own range clamp to the nearest endpoint sample. At an exact
// frequency match it returns that sample unchanged.
func Reconcile(canonical, freqs, power []float64) []float64 {
	out := make([]float64, len(canonical))
	for i, f := range canonical {
		out[i] = interpAt(freqs, power, f)
	}
	return out
}

func interpAt(freqs, power []float64, f float64) float64 {
	n := len(freqs)
	if f <= freqs[0] {
		return power[0]
	}
	if f >= freqs[n-1] {
		return power[n-1]
	}
	j := sort.Search(n, func(i int) bool { return freqs[i] >= f })
	if freqs[j] == f {
		return power[j]
	}
	x0, x1 := freqs[j-1], freqs[j]
	y0, y1 := power[j-1], power[j]
	t := (f - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}
