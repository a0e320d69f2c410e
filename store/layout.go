// Package store knows the on-disk shape of a sealed band: the fixed
// file names under a band directory (store/layout.go), how they get
// written atomically (rename-on-complete, the same pattern
// store/signal.go's OpenFile/HasBand used for capture directories),
// and how bands already on disk are discovered (catalog.go, grounded
// on the original service's meta_*.json glob).
package store

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
)

// Layout resolves artifact paths for a single output directory. Every
// path it returns is the *final* name; writers are responsible for
// staging to a ".tmp" sibling and renaming into place once complete.
type Layout struct {
	Dir string
}

func NewLayout(dir string) (*Layout, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}
	return &Layout{Dir: dir}, nil
}

func (l *Layout) path(format string, n int) string {
	return filepath.Join(l.Dir, fmt.Sprintf(format, n))
}

func (l *Layout) WaterfallPath(n int) string { return l.path("waterfall_band%d.dat", n) }
func (l *Layout) FreqsPath(n int) string     { return l.path("freqs0_band%d.bin", n) }
func (l *Layout) RelTPath(n int) string      { return l.path("rel_t_band%d.bin", n) }
func (l *Layout) SummaryPath(n int) string   { return l.path("summary_band%d.arc", n) }
func (l *Layout) TiersPath(n int) string     { return l.path("tiers_band%d.json", n) }
func (l *Layout) MetaPath(n int) string      { return l.path("meta_band%d.json", n) }
func (l *Layout) MarkersPath(n int) string   { return l.path("markers_band%d.json", n) }

// ScratchPath names a band's pre-quantisation scratch file. uid is a
// build-local unique token (a uuid in practice) so two bands mid-build
// in the same output directory never collide, and a crashed build's
// leftovers never get rename-confused with a fresh one.
func (l *Layout) ScratchPath(uid string) string {
	return filepath.Join(l.Dir, ".scratch-"+uid+".f32")
}

func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

// WriteFloat64Vector writes freqs0_bandN.bin: a flat little-endian
// float64 array.
func WriteFloat64Vector(path string, v []float64) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func ReadFloat64Vector(path string) ([]float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	v := make([]float64, fi.Size()/8)
	if err := binary.Read(f, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return v, nil
}

// WriteInt64Vector writes rel_t_bandN.bin: a flat little-endian int64
// array.
func WriteInt64Vector(path string, v []int64) error {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	if err := binary.Write(f, binary.LittleEndian, v); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func ReadInt64Vector(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	v := make([]int64, fi.Size()/8)
	if err := binary.Read(f, binary.LittleEndian, v); err != nil {
		return nil, err
	}
	return v, nil
}

// RemoveBand deletes every artifact for band n, final or staged. Used
// to roll back a band that failed partway through sealing.
func (l *Layout) RemoveBand(n int) {
	for _, p := range []string{
		l.WaterfallPath(n), l.FreqsPath(n), l.RelTPath(n),
		l.SummaryPath(n), l.TiersPath(n), l.MetaPath(n),
	} {
		os.Remove(p)
		os.Remove(p + ".tmp")
	}
}
