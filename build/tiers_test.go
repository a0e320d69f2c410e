package build

import (
	"testing"

	"github.com/nicerx/waterfallidx/store"
)

func TestBuildPyramidStopsAt256(t *testing.T) {
	n := 1000
	sum := store.Summary{Max: make([]float32, n), Avg: make([]float32, n), Min: make([]float32, n)}
	for i := range sum.Max {
		sum.Max[i] = float32(i)
		sum.Avg[i] = float32(i)
		sum.Min[i] = float32(i)
	}

	levels := BuildPyramid(sum)
	if levels[0].NBins != n {
		t.Fatalf("level 0 got %d bins, want %d", levels[0].NBins, n)
	}
	last := levels[len(levels)-1]
	if last.NBins > 256 {
		t.Fatalf("coarsest level has %d bins, want <= 256", last.NBins)
	}
	if len(levels) >= 2 && levels[len(levels)-2].NBins <= 256 {
		t.Fatalf("pyramid kept building past the first level <= 256")
	}
}

func TestBuildPyramidSingleLevelWhenAlreadySmall(t *testing.T) {
	sum := store.Summary{Max: make([]float32, 64), Avg: make([]float32, 64), Min: make([]float32, 64)}
	levels := BuildPyramid(sum)
	if len(levels) != 1 {
		t.Fatalf("got %d levels, want 1", len(levels))
	}
}

func TestDownsampleLevelCarriesOddBinThrough(t *testing.T) {
	prev := store.TierLevel{
		NBins: 3,
		Min:   []float32{1, 2, 3},
		Max:   []float32{1, 2, 3},
		Mean:  []float32{1, 2, 3},
	}
	next := downsampleLevel(prev)
	if next.NBins != 2 {
		t.Fatalf("got %d bins, want 2", next.NBins)
	}
	if next.Max[1] != 3 || next.Min[1] != 3 {
		t.Fatalf("trailing odd bin not carried through: max=%v min=%v", next.Max[1], next.Min[1])
	}
}
