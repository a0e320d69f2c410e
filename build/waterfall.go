package build

import (
	"encoding/binary"
	"os"

	"github.com/edsrzf/mmap-go"
)

// WaterfallWriter fills waterfall_bandN.dat row by row through a
// memory map, then seals it atomically. Rows are int16, little-endian,
// row-major: trace index outermost, frequency bin innermost.
type WaterfallWriter struct {
	f         *os.File
	m         mmap.MMap
	nFreqs    int
	tmpPath   string
	finalPath string
}

func CreateWaterfall(finalPath string, nTraces, nFreqs int) (*WaterfallWriter, error) {
	tmp := finalPath + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	size := int64(2) * int64(nTraces) * int64(nFreqs)
	w := &WaterfallWriter{f: f, nFreqs: nFreqs, tmpPath: tmp, finalPath: finalPath}
	if size == 0 {
		return w, nil
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, err
	}
	m, err := mmap.Map(f, mmap.RDWR, 0)
	if err != nil {
		f.Close()
		os.Remove(tmp)
		return nil, err
	}
	w.m = m
	return w, nil
}

// WriteRow stores one trace's quantised power row at index i.
func (w *WaterfallWriter) WriteRow(i int, row []int16) {
	off := 2 * i * w.nFreqs
	for j, v := range row {
		binary.LittleEndian.PutUint16(w.m[off+2*j:off+2*j+2], uint16(v))
	}
}

// Seal flushes, unmaps, and renames the staged file into its final
// name, using the same write-tmp-then-rename pattern as a sealed band's
// other artifacts.
func (w *WaterfallWriter) Seal() error {
	if w.m != nil {
		if err := w.m.Flush(); err != nil {
			return err
		}
		if err := w.m.Unmap(); err != nil {
			return err
		}
	}
	if err := w.f.Close(); err != nil {
		return err
	}
	return os.Rename(w.tmpPath, w.finalPath)
}

// Abort discards the staged file after a failure partway through.
func (w *WaterfallWriter) Abort() {
	if w.m != nil {
		w.m.Unmap()
	}
	w.f.Close()
	os.Remove(w.tmpPath)
}
