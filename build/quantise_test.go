package build

import "testing"

func TestQuantiseMapsRangeEndpoints(t *testing.T) {
	samples := make([]float64, 0, 1000)
	for i := 0; i < 1000; i++ {
		samples = append(samples, -80+float64(i)*0.05)
	}
	qr := computeRange(samples)

	q := quantiseValue(qr.DBMin, qr)
	if q != -32767 {
		t.Fatalf("DBMin quantised to %d, want -32767", q)
	}
	q = quantiseValue(qr.DBMax, qr)
	if q != 32767 {
		t.Fatalf("DBMax quantised to %d, want 32767", q)
	}
}

func TestQuantiseClampsOutOfRange(t *testing.T) {
	qr := QuantRange{DBMin: -80, DBMax: -20, Scale: 65534.0 / 60}
	if v := quantiseValue(-1000, qr); v != -32767 {
		t.Fatalf("below-range sample got %d, want clamp -32767", v)
	}
	if v := quantiseValue(1000, qr); v != 32767 {
		t.Fatalf("above-range sample got %d, want clamp 32767", v)
	}
}

func TestDequantiseValueInvertsQuantise(t *testing.T) {
	qr := QuantRange{DBMin: -80, DBMax: -20, Scale: 65534.0 / 60}
	for _, db := range []float64{-80, -65.3, -50, -20} {
		q := quantiseValue(db, qr)
		got := dequantiseValue(q, qr)
		if diff := got - db; diff > 1e-3 || diff < -1e-3 {
			t.Fatalf("round trip %v -> %d -> %v, off by %v", db, q, got, diff)
		}
	}
}

func TestComputeRangeEmptySamplesIsStable(t *testing.T) {
	qr := computeRange(nil)
	if qr.DBMax <= qr.DBMin {
		t.Fatalf("degenerate range: min %v max %v", qr.DBMin, qr.DBMax)
	}
}

func TestReservoirKeepsEverythingBelowCap(t *testing.T) {
	r := newReservoir(100, 42)
	for i := 0; i < 50; i++ {
		r.add(float64(i))
	}
	if len(r.vals) != 50 {
		t.Fatalf("got %d samples, want 50 (below cap)", len(r.vals))
	}
}

func TestReservoirCapsAtLimit(t *testing.T) {
	r := newReservoir(10, 42)
	for i := 0; i < 10000; i++ {
		r.add(float64(i))
	}
	if len(r.vals) != 10 {
		t.Fatalf("got %d samples, want capped at 10", len(r.vals))
	}
}

func TestSeedForKeyDeterministic(t *testing.T) {
	k := keyFixture()
	s1 := seedForKey(k)
	s2 := seedForKey(k)
	if s1 != s2 {
		t.Fatalf("seed not deterministic: %d != %d", s1, s2)
	}
}
