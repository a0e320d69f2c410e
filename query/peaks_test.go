package query

import "testing"

func i(v int) *int { return &v }

func TestFindPeaksStrictLocalMaxima(t *testing.T) {
	freqs := []float64{0, 1, 2, 3, 4, 5, 6}
	vals := []float64{0, 1, 0, 5, 0, 2, 0}

	peaks := FindPeaks(freqs, vals, nil, f64(0), i(1))
	if len(peaks) != 3 {
		t.Fatalf("got %d peaks, want 3: %+v", len(peaks), peaks)
	}
	if peaks[0].Index != 1 || peaks[1].Index != 3 || peaks[2].Index != 5 {
		t.Fatalf("unexpected indices: %+v", peaks)
	}
}

func TestFindPeaksHeightFiltersLowPeaks(t *testing.T) {
	freqs := []float64{0, 1, 2, 3, 4, 5, 6}
	vals := []float64{0, 1, 0, 5, 0, 2, 0}

	peaks := FindPeaks(freqs, vals, f64(1.5), nil, nil)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2: %+v", len(peaks), peaks)
	}
	if peaks[0].Index != 3 || peaks[1].Index != 5 {
		t.Fatalf("unexpected indices: %+v", peaks)
	}
}

func TestFindPeaksProminenceFiltersShallowBumps(t *testing.T) {
	// One dominant peak at index 3 (height 10), a shallow wobble at
	// index 1 (height 1, prominence only 1).
	freqs := []float64{0, 1, 2, 3, 4, 5, 6}
	vals := []float64{0, 1, 0, 10, 0, 0.5, 0}

	peaks := FindPeaks(freqs, vals, nil, f64(5), i(1))
	if len(peaks) != 1 {
		t.Fatalf("got %d peaks, want 1: %+v", len(peaks), peaks)
	}
	if peaks[0].Index != 3 {
		t.Fatalf("kept peak at index %d, want 3", peaks[0].Index)
	}
}

func TestFindPeaksDistanceSuppressesNearbyLowerPeak(t *testing.T) {
	freqs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	vals := []float64{0, 5, 2, 8, 2, 1, 0, 0, 0}

	peaks := FindPeaks(freqs, vals, nil, f64(0), i(5))
	if len(peaks) != 1 {
		t.Fatalf("got %d peaks, want 1 (nearby lower peak suppressed): %+v", len(peaks), peaks)
	}
	if peaks[0].Index != 3 {
		t.Fatalf("kept peak at index %d, want 3 (the taller one)", peaks[0].Index)
	}
}

func TestFindPeaksNoDistanceKeepsBoth(t *testing.T) {
	freqs := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8}
	vals := []float64{0, 5, 2, 8, 2, 1, 0, 0, 0}

	peaks := FindPeaks(freqs, vals, nil, nil, nil)
	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2 (distance unset, no suppression): %+v", len(peaks), peaks)
	}
}

func TestProminenceMatchesWorkedExample(t *testing.T) {
	// valley 0, peak 1 at 5, valley -2, peak 2 at 8, valley 1.
	vals := []float64{0, 5, -2, 8, 1}
	p := prominenceAt(vals, 1)
	// left min walking out from index 1 is 0 (index 0), right min is -2
	// before the taller 8; prominence = 5 - max(0, -2) = 5.
	if p != 5 {
		t.Fatalf("prominence at index 1 = %v, want 5", p)
	}
	p = prominenceAt(vals, 3)
	// right min is 1 (no taller point after it), left min is -2;
	// prominence = 8 - max(-2, 1) = 7.
	if p != 7 {
		t.Fatalf("prominence at index 3 = %v, want 7", p)
	}
}
