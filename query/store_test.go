package query

import (
	"encoding/binary"
	"os"
	"testing"

	"github.com/nicerx/waterfallidx/store"
)

// writeFixtureBand seals a minimal two-trace, three-bin band directly
// through the store package, bypassing build, so query tests don't
// need a full pipeline run to exercise a BandHandle.
func writeFixtureBand(t *testing.T, dir string, id int) {
	t.Helper()
	layout, err := store.NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}

	freqs := []float64{100, 200, 300}
	relT := []int64{0, 10}
	manifest := store.Manifest{
		DBMin: -80, DBMax: -20, Scale: 65534.0 / 60,
		NTraces: 2, NFreqs: 3,
		FStart: 100, FStop: 300,
		Unix0: 1000, Levels: []int{3},
	}
	sum := store.Summary{
		Max:  []float32{-30, -25, -35},
		Avg:  []float32{-40, -35, -45},
		Min:  []float32{-50, -45, -55},
	}
	tiers := store.TierDoc{
		FStart: 100, FStop: 300,
		Levels: []store.TierLevel{{NBins: 3, Min: sum.Min, Max: sum.Max, Mean: sum.Avg}},
	}

	if err := store.WriteFloat64Vector(layout.FreqsPath(id), freqs); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteInt64Vector(layout.RelTPath(id), relT); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteSummaryArchive(layout.SummaryPath(id), sum); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteTiers(layout.TiersPath(id), tiers); err != nil {
		t.Fatal(err)
	}
	if err := store.WriteManifest(layout.MetaPath(id), manifest); err != nil {
		t.Fatal(err)
	}

	rows := [][]int16{
		{-1000, -500, -2000},
		{-900, -400, -1900},
	}
	buf := make([]byte, 0, 2*3*2)
	for _, row := range rows {
		for _, v := range row {
			b := make([]byte, 2)
			binary.LittleEndian.PutUint16(b, uint16(v))
			buf = append(buf, b...)
		}
	}
	if err := os.WriteFile(layout.WaterfallPath(id), buf, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestStoreGetCachesHandle(t *testing.T) {
	dir := t.TempDir()
	writeFixtureBand(t, dir, 0)
	layout, err := store.NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}

	s := NewStore(layout)
	defer s.Close()

	h1, err := s.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	h2, err := s.Get(0)
	if err != nil {
		t.Fatal(err)
	}
	if h1 != h2 {
		t.Fatalf("Get returned distinct handles for the same band id")
	}
}

func TestBandHandleRowAndDequantise(t *testing.T) {
	dir := t.TempDir()
	writeFixtureBand(t, dir, 0)
	layout, err := store.NewLayout(dir)
	if err != nil {
		t.Fatal(err)
	}
	h, err := openBandHandle(layout, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	row := h.Row(0)
	if len(row) != 3 {
		t.Fatalf("row length %d, want 3", len(row))
	}
	if row[0] != -1000 {
		t.Fatalf("row[0]=%d, want -1000", row[0])
	}

	db := h.Dequantise(-32767)
	if db < h.Manifest.DBMin-1e-6 || db > h.Manifest.DBMin+1e-6 {
		t.Fatalf("dequantise(-32767)=%v, want ~DBMin=%v", db, h.Manifest.DBMin)
	}
}
