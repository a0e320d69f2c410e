package build

import "github.com/nicerx/waterfallidx/store"

// BuildPyramid halves a summary's resolution level by level until the
// coarsest level has 256 bins or fewer, keeping level 0 at full
// resolution. Odd-length levels carry their last bin through
// unchanged rather than padding or dropping it.
func BuildPyramid(sum store.Summary) []store.TierLevel {
	levels := []store.TierLevel{{NBins: len(sum.Max), Min: sum.Min, Max: sum.Max, Mean: sum.Avg}}
	for levels[len(levels)-1].NBins > 256 {
		levels = append(levels, downsampleLevel(levels[len(levels)-1]))
	}
	return levels
}

func downsampleLevel(prev store.TierLevel) store.TierLevel {
	n := (prev.NBins + 1) / 2
	min := make([]float32, n)
	max := make([]float32, n)
	mean := make([]float32, n)
	for j := 0; j < n; j++ {
		i0, i1 := 2*j, 2*j+1
		if i1 < prev.NBins {
			min[j] = fmin32(prev.Min[i0], prev.Min[i1])
			max[j] = fmax32(prev.Max[i0], prev.Max[i1])
			mean[j] = (prev.Mean[i0] + prev.Mean[i1]) / 2
		} else {
			min[j] = prev.Min[i0]
			max[j] = prev.Max[i0]
			mean[j] = prev.Mean[i0]
		}
	}
	return store.TierLevel{NBins: n, Min: min, Max: max, Mean: mean}
}

func fmin32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func fmax32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
