package build

import (
	"math"

	"github.com/nicerx/waterfallidx/store"
)

// SummaryAggregator accumulates per-frequency max, min, and running
// mean across a band's rows without holding them all in memory, using
// Welford's algorithm for a numerically stable running mean.
type SummaryAggregator struct {
	max, min []float32
	mean     []float64
	n        int
}

func NewSummaryAggregator(nFreqs int) *SummaryAggregator {
	max := make([]float32, nFreqs)
	min := make([]float32, nFreqs)
	for j := range max {
		max[j] = float32(math.Inf(-1))
		min[j] = float32(math.Inf(1))
	}
	return &SummaryAggregator{max: max, min: min, mean: make([]float64, nFreqs)}
}

func (s *SummaryAggregator) Add(row []float32) {
	s.n++
	for j, v := range row {
		if v > s.max[j] {
			s.max[j] = v
		}
		if v < s.min[j] {
			s.min[j] = v
		}
		s.mean[j] += (float64(v) - s.mean[j]) / float64(s.n)
	}
}

// Triple returns the finished max/avg/min vectors.
func (s *SummaryAggregator) Triple() store.Summary {
	avg := make([]float32, len(s.mean))
	for j, m := range s.mean {
		avg[j] = float32(m)
	}
	return store.Summary{Max: s.max, Avg: avg, Min: s.min}
}
