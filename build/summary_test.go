package build

import "testing"

func TestSummaryAggregatorMaxMinMean(t *testing.T) {
	agg := NewSummaryAggregator(2)
	agg.Add([]float32{-10, 5})
	agg.Add([]float32{-30, 15})
	agg.Add([]float32{-20, 10})

	tr := agg.Triple()
	if tr.Max[0] != -10 || tr.Min[0] != -30 {
		t.Fatalf("bin0: max=%v min=%v, want max=-10 min=-30", tr.Max[0], tr.Min[0])
	}
	if tr.Max[1] != 15 || tr.Min[1] != 5 {
		t.Fatalf("bin1: max=%v min=%v, want max=15 min=5", tr.Max[1], tr.Min[1])
	}
	if tr.Avg[0] != -20 {
		t.Fatalf("bin0 mean=%v, want -20", tr.Avg[0])
	}
	if tr.Avg[1] != 10 {
		t.Fatalf("bin1 mean=%v, want 10", tr.Avg[1])
	}
}
