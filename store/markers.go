package store

// Marker and Region mirror markers_bandN.json's shape exactly. This
// package only defines the layout; neither build nor query ever reads
// or writes it. Marker persistence is a separate, externally managed
// key/value blob that an operator curates out of band, not something
// the merge-and-index pipeline derives.
type Marker struct {
	FreqHz float64 `json:"freq_hz"`
	Label  string  `json:"label"`
	ID     string  `json:"id"`
	Color  string  `json:"color,omitempty"`
	Width  float64 `json:"width,omitempty"`
}

type Region struct {
	F0Hz  float64 `json:"f0_hz"`
	F1Hz  float64 `json:"f1_hz"`
	Label string  `json:"label"`
}

type Markers struct {
	Markers []Marker `json:"markers"`
	Regions []Region `json:"regions"`
}
