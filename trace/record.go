// Package trace holds the types shared by the decoder, the band
// classifier, and the on-disk artifact writers: a single spectrum trace,
// its frequency axis, and the key used to group traces into bands.
package trace

import "math"

// Record is one decoded spectrum trace: a timestamp, an ordered
// frequency axis in hertz, and one power sample per frequency in dB.
type Record struct {
	Timestamp float64 // unix seconds, microsecond precision
	Freqs     []float64
	Power     []float64
}

// GridTolerance is the default relative tolerance used both to validate
// a record's frequency axis and to decide whether two axes with a
// matching Key are close enough to reconcile rather than reject.
const GridTolerance = 1e-6

// Key groups records into a band: two records belong to the same band
// iff their keys are equal.
type Key struct {
	NFreqs int
	FStart int64 // round(f_start, 0)
	FStop  int64 // round(f_stop, 0)
}

// KeyOf derives the BandKey for a frequency axis.
func KeyOf(freqs []float64) Key {
	n := len(freqs)
	if n == 0 {
		return Key{}
	}
	return Key{
		NFreqs: n,
		FStart: int64(math.Round(freqs[0])),
		FStop:  int64(math.Round(freqs[n-1])),
	}
}

// ValidateAxis checks that freqs is strictly increasing and uniformly
// spaced to within relTol relative tolerance, per the TraceRecord data
// model.
func ValidateAxis(freqs []float64, relTol float64) error {
	if len(freqs) < 2 {
		return ErrAxisTooShort
	}
	step := freqs[1] - freqs[0]
	if step <= 0 {
		return ErrAxisNotIncreasing
	}
	for i := 1; i < len(freqs); i++ {
		d := freqs[i] - freqs[i-1]
		if d <= 0 {
			return ErrAxisNotIncreasing
		}
		if math.Abs(d-step) > relTol*math.Abs(step) {
			return ErrAxisNotUniform
		}
	}
	return nil
}

// AxesMatch reports whether two axes sharing a Key are close enough
// (within relTol at every index) to be reconciled onto one another,
// rather than rejected as grid drift.
func AxesMatch(a, b []float64, relTol float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if math.Abs(a[i]-b[i]) > relTol*math.Abs(a[i]) {
			return false
		}
	}
	return true
}

// AxesEqual reports whether two axes are identical bit-for-bit.
func AxesEqual(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
