package query

import "sort"

// Peak is one detected local maximum in a summary trace.
type Peak struct {
	Index      int
	FreqHz     float64
	ValueDB    float64
	Prominence float64
}

// FindPeaks locates strict local maxima in vals: y[i] > y[i-1] and
// y[i] > y[i+1]. Each optional filter is skipped when nil, matching
// the original peak finder's optional height/prominence/distance
// arguments:
//   - height: keep only peaks with y[i] >= *height.
//   - prominence: keep only peaks whose topographic prominence (the
//     height above the higher of the two valleys reached walking
//     outward until a taller point appears) is >= *prominence.
//   - distance: when two surviving peaks are within *distance bins,
//     drop the lower one; ties keep the lower index.
//
// Results are sorted ascending by index (equivalently, by frequency,
// since freqs is assumed ascending).
func FindPeaks(freqs, vals []float64, height, prominence *float64, distance *int) []Peak {
	n := len(vals)
	var candidates []Peak
	for i := 1; i < n-1; i++ {
		if vals[i] > vals[i-1] && vals[i] > vals[i+1] {
			if height != nil && vals[i] < *height {
				continue
			}
			candidates = append(candidates, Peak{Index: i, FreqHz: freqs[i], ValueDB: vals[i]})
		}
	}
	for i := range candidates {
		candidates[i].Prominence = prominenceAt(vals, candidates[i].Index)
	}

	if prominence != nil {
		kept := candidates[:0]
		for _, p := range candidates {
			if p.Prominence >= *prominence {
				kept = append(kept, p)
			}
		}
		candidates = kept
	}

	if distance == nil {
		sort.Slice(candidates, func(i, j int) bool { return candidates[i].Index < candidates[j].Index })
		return candidates
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].ValueDB > candidates[j].ValueDB })
	suppressed := make([]bool, len(candidates))
	var result []Peak
	for i, p := range candidates {
		if suppressed[i] {
			continue
		}
		result = append(result, p)
		for j := i + 1; j < len(candidates); j++ {
			if !suppressed[j] && absInt(candidates[j].Index-p.Index) < *distance {
				suppressed[j] = true
			}
		}
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Index < result[j].Index })
	return result
}

// prominenceAt measures how far vals[i] stands above the higher of
// the two valleys reached by walking outward from it until a taller
// point is found on each side.
func prominenceAt(vals []float64, i int) float64 {
	v := vals[i]
	leftMin := v
	for j := i - 1; j >= 0; j-- {
		if vals[j] > v {
			break
		}
		if vals[j] < leftMin {
			leftMin = vals[j]
		}
	}
	rightMin := v
	for j := i + 1; j < len(vals); j++ {
		if vals[j] > v {
			break
		}
		if vals[j] < rightMin {
			rightMin = vals[j]
		}
	}
	return v - maxFloat(leftMin, rightMin)
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func maxFloat(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
