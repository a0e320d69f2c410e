package build

import (
	"encoding/binary"
	"fmt"
	"os"
	"sync"

	"github.com/google/uuid"
	"github.com/nicerx/waterfallidx/store"
	"github.com/nicerx/waterfallidx/trace"
)

// State tracks a band through the pipeline, mirroring the stages
// nicerx/task.go's TaskQueue moved a capture task through
// (open, running, done, failed) but specialised to what a band
// actually goes through before it is queryable.
type State int

const (
	StateOpen State = iota
	StateAxisFixed
	StateQuantising
	StateIndexed
	StateSealed
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateOpen:
		return "open"
	case StateAxisFixed:
		return "axis_fixed"
	case StateQuantising:
		return "quantising"
	case StateIndexed:
		return "indexed"
	case StateSealed:
		return "sealed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

type rowRef struct {
	ts     float64
	seq    int
	offset int64
}

// bandBuilder owns one band's scratch accumulation from the first
// record it sees through to the point it is handed off for sealing.
// Classification is single-producer per the engine's streaming
// contract, but accept still takes mu so its fields (state, driftDrop,
// rows) can safely be read under mu from another goroutine mid-build.
type bandBuilder struct {
	id    int
	key   trace.Key
	mu    sync.Mutex
	state State

	canonical []float64
	unix0     float64
	unix0set  bool

	scratchPath   string
	scratchFile   *os.File
	scratchOffset int64

	rows      []rowRef
	nextSeq   int
	reservoir *reservoir
	driftDrop int
}

func newBandBuilder(id int, key trace.Key, layout *store.Layout, reservoirCap int) *bandBuilder {
	return &bandBuilder{
		id:        id,
		key:       key,
		state:     StateOpen,
		scratchPath: layout.ScratchPath(uuid.NewString()),
		reservoir: newReservoir(reservoirCap, seedForKey(key)),
	}
}

func (b *bandBuilder) openScratch() error {
	f, err := os.OpenFile(b.scratchPath, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return err
	}
	b.scratchFile = f
	return nil
}

func (b *bandBuilder) appendRow(power []float64) (int64, error) {
	row := make([]float32, len(power))
	for i, v := range power {
		row[i] = float32(v)
	}
	off := b.scratchOffset
	if err := binary.Write(b.scratchFile, binary.LittleEndian, row); err != nil {
		return 0, err
	}
	b.scratchOffset += int64(4 * len(row))
	return off, nil
}

func (b *bandBuilder) closeScratchForRead() error {
	return b.scratchFile.Close()
}

// accept classifies one record already known to belong to this band:
// it fixes the canonical axis on the first record, reconciles or
// rejects drifted axes on later ones, and appends the resulting row to
// scratch.
func (b *bandBuilder) accept(rec trace.Record) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	power := rec.Power
	if b.canonical == nil {
		b.canonical = append([]float64(nil), rec.Freqs...)
		b.unix0 = rec.Timestamp
		b.unix0set = true
		if err := b.openScratch(); err != nil {
			return err
		}
		b.state = StateAxisFixed
	} else {
		if rec.Timestamp < b.unix0 {
			b.unix0 = rec.Timestamp
		}
		if !trace.AxesEqual(b.canonical, rec.Freqs) {
			if !trace.AxesMatch(b.canonical, rec.Freqs, trace.GridTolerance) {
				b.driftDrop++
				return ErrGridDrift
			}
			power = Reconcile(b.canonical, rec.Freqs, rec.Power)
		}
	}

	off, err := b.appendRow(power)
	if err != nil {
		return err
	}
	b.rows = append(b.rows, rowRef{ts: rec.Timestamp, seq: b.nextSeq, offset: off})
	b.nextSeq++
	b.reservoir.addAll(power)
	return nil
}

// Registry classifies decoded records into bands keyed by their
// frequency grid, assigning each newly seen key the next integer id in
// first-seen order, the numbering an operator expects from a single
// deterministic pass.
type Registry struct {
	layout       *store.Layout
	reservoirCap int

	mu    sync.Mutex
	byKey map[trace.Key]*bandBuilder
	order []*bandBuilder
}

func newRegistry(layout *store.Layout, reservoirCap int) *Registry {
	return &Registry{
		layout:       layout,
		reservoirCap: reservoirCap,
		byKey:        make(map[trace.Key]*bandBuilder),
	}
}

// dispatch routes one decoded record to its band, creating the band on
// first sight of its key.
func (r *Registry) dispatch(rec trace.Record) error {
	if err := trace.ValidateAxis(rec.Freqs, trace.GridTolerance); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAxis, err)
	}
	key := trace.KeyOf(rec.Freqs)

	r.mu.Lock()
	b, ok := r.byKey[key]
	if !ok {
		b = newBandBuilder(len(r.order), key, r.layout, r.reservoirCap)
		r.byKey[key] = b
		r.order = append(r.order, b)
	}
	r.mu.Unlock()

	return b.accept(rec)
}
