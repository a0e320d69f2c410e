package build

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// QuantRange is a band's fixed dB-to-int16 mapping, fixed once from a
// reservoir sample and then applied to every row in the band.
type QuantRange struct {
	DBMin, DBMax, Scale float64
}

// dbPad widens the reservoir's [p0.5, p99.5] percentile window on each
// side so a handful of genuinely new extreme samples after the range
// is fixed still land inside int16 range instead of clipping.
const dbPad = 2.0

func computeRange(samples []float64) QuantRange {
	if len(samples) == 0 {
		return QuantRange{DBMin: -1, DBMax: 1, Scale: 65534.0 / 2}
	}
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)
	lo := stat.Quantile(0.005, stat.Empirical, sorted, nil)
	hi := stat.Quantile(0.995, stat.Empirical, sorted, nil)
	dbMin := lo - dbPad
	dbMax := hi + dbPad
	if dbMax <= dbMin {
		dbMax = dbMin + 1e-6
	}
	return QuantRange{DBMin: dbMin, DBMax: dbMax, Scale: 65534.0 / (dbMax - dbMin)}
}

// quantiseValue maps a dB sample onto the signed int16 range, clamping
// samples that fall outside [DBMin, DBMax]. DBMin maps to -32767,
// DBMax to 32767.
func quantiseValue(db float64, qr QuantRange) int16 {
	v := math.Round((db-qr.DBMin)*qr.Scale - 32767)
	if v < -32767 {
		v = -32767
	}
	if v > 32767 {
		v = 32767
	}
	return int16(v)
}

// dequantiseValue inverts quantiseValue given the same range.
func dequantiseValue(v int16, qr QuantRange) float64 {
	return (float64(v)+32767)/qr.Scale + qr.DBMin
}
