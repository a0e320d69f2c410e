// Package query serves read-only access to sealed bands: cached
// memory-mapped waterfalls, summary resampling, tile rendering, and
// peak detection. It never writes an artifact, that is build's job.
package query

import (
	"encoding/binary"
	"os"
	"sync"

	"github.com/edsrzf/mmap-go"
	"github.com/nicerx/waterfallidx/store"
)

// BandHandle is a sealed band opened for reading: its manifest, tier
// pyramid, and axis vectors loaded into memory, its waterfall kept
// memory-mapped so random row access never re-reads the whole file.
type BandHandle struct {
	ID       int
	Manifest store.Manifest
	Tiers    store.TierDoc
	Freqs    []float64
	RelT     []int64

	f *os.File
	m mmap.MMap
}

func openBandHandle(layout *store.Layout, id int) (*BandHandle, error) {
	manifest, err := store.ReadManifest(layout.MetaPath(id))
	if err != nil {
		return nil, err
	}
	tiers, err := store.ReadTiers(layout.TiersPath(id))
	if err != nil {
		return nil, err
	}
	freqs, err := store.ReadFloat64Vector(layout.FreqsPath(id))
	if err != nil {
		return nil, err
	}
	relT, err := store.ReadInt64Vector(layout.RelTPath(id))
	if err != nil {
		return nil, err
	}

	f, err := os.Open(layout.WaterfallPath(id))
	if err != nil {
		return nil, err
	}
	h := &BandHandle{ID: id, Manifest: manifest, Tiers: tiers, Freqs: freqs, RelT: relT, f: f}
	if manifest.NTraces > 0 && manifest.NFreqs > 0 {
		m, err := mmap.Map(f, mmap.RDONLY, 0)
		if err != nil {
			f.Close()
			return nil, err
		}
		h.m = m
	}
	return h, nil
}

func (h *BandHandle) Close() error {
	if h.m != nil {
		if err := h.m.Unmap(); err != nil {
			h.f.Close()
			return err
		}
	}
	return h.f.Close()
}

// Row returns the quantised int16 row for trace index i.
func (h *BandHandle) Row(i int) []int16 {
	n := h.Manifest.NFreqs
	off := 2 * i * n
	row := make([]int16, n)
	for j := 0; j < n; j++ {
		row[j] = int16(binary.LittleEndian.Uint16(h.m[off+2*j : off+2*j+2]))
	}
	return row
}

// Dequantise converts one raw sample back to dB using the band's fixed
// range, the exact inverse of the range build fixed at seal time.
func (h *BandHandle) Dequantise(v int16) float64 {
	return (float64(v)+32767)/h.Manifest.Scale + h.Manifest.DBMin
}

// Store caches open BandHandles across queries so repeated requests
// against the same band reuse its memory map, the way the original
// dataset service's _get_cached_band avoided reopening a band's files
// on every request.
type Store struct {
	layout *store.Layout

	mu    sync.Mutex
	cache map[int]*BandHandle
}

func NewStore(layout *store.Layout) *Store {
	return &Store{layout: layout, cache: make(map[int]*BandHandle)}
}

func (s *Store) Get(id int) (*BandHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.cache[id]; ok {
		return h, nil
	}
	h, err := openBandHandle(s.layout, id)
	if err != nil {
		return nil, err
	}
	s.cache[id] = h
	return h, nil
}

// Invalidate drops a band from the cache, closing its handle. Callers
// use this after a band is rebuilt out from under a long-lived Store.
func (s *Store) Invalidate(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.cache[id]
	if !ok {
		return nil
	}
	delete(s.cache, id)
	return h.Close()
}

func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for id, h := range s.cache {
		if err := h.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
		delete(s.cache, id)
	}
	return firstErr
}
