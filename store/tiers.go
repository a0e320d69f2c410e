package store

import (
	"encoding/json"
	"os"
)

// TierLevel is one level of the frequency-axis pyramid as persisted in
// tiers_bandN.json.
type TierLevel struct {
	NBins int       `json:"n_bins"`
	Min   []float32 `json:"min"`
	Max   []float32 `json:"max"`
	Mean  []float32 `json:"mean"`
}

// TierDoc is the full tiers_bandN.json document: every level plus the
// frequency endpoints shared across all of them (the axis is linear,
// so each level's bin centers are derived from FStart/FStop/NBins
// rather than stored per level).
type TierDoc struct {
	Levels []TierLevel `json:"levels"`
	FStart float64     `json:"f_start"`
	FStop  float64     `json:"f_stop"`
}

func ReadTiers(path string) (TierDoc, error) {
	var t TierDoc
	b, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal(b, &t); err != nil {
		return t, err
	}
	return t, nil
}

func WriteTiers(path string, t TierDoc) error {
	b, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}

// Freqs reconstructs the linear frequency axis for a level by index
// (0 = full resolution).
func (t TierDoc) Freqs(level int) []float64 {
	n := t.Levels[level].NBins
	freqs := make([]float64, n)
	if n == 1 {
		freqs[0] = (t.FStart + t.FStop) / 2
		return freqs
	}
	step := (t.FStop - t.FStart) / float64(n-1)
	for i := range freqs {
		freqs[i] = t.FStart + float64(i)*step
	}
	return freqs
}
