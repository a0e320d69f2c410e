package query

import (
	"testing"

	"github.com/nicerx/waterfallidx/store"
)

func tiersFixture() store.TierDoc {
	return store.TierDoc{
		FStart: 0,
		FStop:  400,
		Levels: []store.TierLevel{
			{NBins: 5, Min: []float32{-10, -9, -8, -9, -10}, Max: []float32{0, 1, 2, 1, 0}, Mean: []float32{-5, -4, -3, -4, -5}},
		},
	}
}

func TestSelectTierFallsBackToLevel0(t *testing.T) {
	tiers := tiersFixture()
	if lvl := SelectTier(tiers, tiers.FStart, tiers.FStop, 1000); lvl != 0 {
		t.Fatalf("got level %d, want 0", lvl)
	}
}

func TestSummaryInterpolatesExactMatches(t *testing.T) {
	tiers := tiersFixture()
	res := Summary(tiers, nil, nil, 5)
	for i, f := range res.Freqs {
		if f != float64(i)*100 {
			t.Fatalf("freq[%d]=%v, want %v", i, f, float64(i)*100)
		}
	}
	if res.Mean[2] != -3 {
		t.Fatalf("mean[2]=%v, want -3", res.Mean[2])
	}
}

func TestSummaryNarrowsToRequestedWindow(t *testing.T) {
	tiers := tiersFixture()
	res := Summary(tiers, f64(100), f64(300), 3)
	if res.Freqs[0] != 100 || res.Freqs[2] != 300 {
		t.Fatalf("got freqs %v, want bounds [100,300]", res.Freqs)
	}
}

func TestSummaryInvertedWindowReturnsEmpty(t *testing.T) {
	tiers := tiersFixture()
	res := Summary(tiers, f64(300), f64(100), 50)
	if len(res.Freqs) != 0 || len(res.Min) != 0 || len(res.Max) != 0 || len(res.Mean) != 0 {
		t.Fatalf("got non-empty result for inverted window: %+v", res)
	}
}

func TestSummaryWindowOutsideBandReturnsEmpty(t *testing.T) {
	tiers := tiersFixture()
	res := Summary(tiers, f64(1000), f64(2000), 50)
	if len(res.Freqs) != 0 {
		t.Fatalf("got non-empty result for window past FStop: %+v", res)
	}
}
