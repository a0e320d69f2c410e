package store

import (
	"encoding/json"
	"os"
)

// Manifest is meta_bandN.json: the fixed set of facts a reader needs
// to interpret the rest of a band's artifacts without recomputation.
type Manifest struct {
	DBMin   float64 `json:"db_min"`
	DBMax   float64 `json:"db_max"`
	Scale   float64 `json:"scale"`
	NTraces int     `json:"n_traces"`
	NFreqs  int     `json:"n_freqs"`
	FStart  float64 `json:"f_start"`
	FStop   float64 `json:"f_stop"`
	Unix0   float64 `json:"unix0"`
	Levels  []int   `json:"levels"`
}

func ReadManifest(path string) (Manifest, error) {
	var m Manifest
	b, err := os.ReadFile(path)
	if err != nil {
		return m, err
	}
	if err := json.Unmarshal(b, &m); err != nil {
		return m, err
	}
	return m, nil
}

func WriteManifest(path string, m Manifest) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return err
	}
	return writeFileAtomic(path, b)
}
