package query

import "testing"

func f64(v float64) *float64 { return &v }

func TestWindowIndicesUnbounded(t *testing.T) {
	relT := []int64{0, 10, 20, 30}
	lo, hi := WindowIndices(relT, nil, nil)
	if lo != 0 || hi != 4 {
		t.Fatalf("got [%d,%d), want [0,4)", lo, hi)
	}
}

func TestWindowIndicesBothBounds(t *testing.T) {
	relT := []int64{0, 10, 20, 30, 40}
	lo, hi := WindowIndices(relT, f64(10), f64(30))
	if lo != 1 || hi != 4 {
		t.Fatalf("got [%d,%d), want [1,4)", lo, hi)
	}
}

func TestFreqIndexRangeBothBounds(t *testing.T) {
	freqs := []float64{100, 200, 300, 400, 500}
	lo, hi := freqIndexRange(freqs, f64(200), f64(400))
	if lo != 1 || hi != 4 {
		t.Fatalf("got [%d,%d), want [1,4)", lo, hi)
	}
}

func TestWindowIndicesInvertedWindowStaysNonEmpty(t *testing.T) {
	relT := []int64{0, 10, 20, 30, 40}
	lo, hi := WindowIndices(relT, f64(30), f64(10))
	if hi <= lo {
		t.Fatalf("got [%d,%d), want a non-empty degenerate range", lo, hi)
	}
	if hi > len(relT) {
		t.Fatalf("hi=%d exceeds axis length %d", hi, len(relT))
	}
}
