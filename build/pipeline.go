// Package build turns a sequence of decoded chunk files into sealed
// bands: classification, axis reconciliation, quantisation, waterfall
// indexing, summarisation, and tiering. Classification is a single
// sequential streaming pass; sealing fans out one goroutine per band
// via errgroup, a bounded concurrency pattern.
package build

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"

	"github.com/nicerx/waterfallidx/decoder"
	"github.com/nicerx/waterfallidx/store"
	"golang.org/x/sync/errgroup"
)

// defaultReservoirCap bounds the per-band percentile sample to a size
// that keeps quantisation memory flat regardless of band length.
const defaultReservoirCap = 1_000_000

// BandResult summarises one sealed band for the caller.
type BandResult struct {
	ID         int
	Manifest   store.Manifest
	DriftDrops int
	NTraces    int
}

// Result is the outcome of a full Run.
type Result struct {
	Bands       []BandResult
	DecodeSkips int
}

// Pipeline drives one build from opened chunk files to sealed bands
// under Layout.
type Pipeline struct {
	Layout       *store.Layout
	Logger       *log.Logger
	ReservoirCap int
}

func NewPipeline(layout *store.Layout, logger *log.Logger) *Pipeline {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Pipeline{Layout: layout, Logger: logger, ReservoirCap: defaultReservoirCap}
}

func (p *Pipeline) reservoirCap() int {
	if p.ReservoirCap > 0 {
		return p.ReservoirCap
	}
	return defaultReservoirCap
}

// Run classifies every record from every chunk file at paths (opened
// through opener, in order), then seals each resulting band
// concurrently. A band that ends up with zero accepted records is
// dropped with a log line, not an error; any I/O or decode failure
// aborts the whole run.
func (p *Pipeline) Run(ctx context.Context, opener decoder.Opener, paths []string) (*Result, error) {
	if len(paths) == 0 {
		return nil, ErrInputMissing
	}

	reg := newRegistry(p.Layout, p.reservoirCap())
	decodeSkips := 0
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it, err := opener.Open(path)
		if err != nil {
			return nil, fmt.Errorf("build: open %s: %w", path, err)
		}
		err = p.consumeChunk(ctx, reg, it, &decodeSkips)
		closeErr := it.Close()
		if err != nil {
			return nil, fmt.Errorf("build: decode %s: %w", path, err)
		}
		if closeErr != nil {
			return nil, fmt.Errorf("build: close %s: %w", path, closeErr)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	results := make([]BandResult, len(reg.order))
	for i, b := range reg.order {
		i, b := i, b
		g.Go(func() error {
			res, err := p.sealBand(gctx, b)
			if err != nil {
				if errors.Is(err, ErrEmptyBand) {
					p.Logger.Printf("band %d: %s, dropped", b.id, err)
					return nil
				}
				b.state = StateFailed
				p.Layout.RemoveBand(b.id)
				return fmt.Errorf("build: band %d: %w", b.id, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := &Result{DecodeSkips: decodeSkips}
	for _, r := range results {
		if r.NTraces > 0 {
			out.Bands = append(out.Bands, r)
		}
	}
	return out, nil
}

func (p *Pipeline) consumeChunk(ctx context.Context, reg *Registry, it decoder.Iterator, skips *int) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		rec, err := it.Next()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			if errors.Is(err, decoder.ErrSkip) {
				*skips++
				continue
			}
			return fmt.Errorf("%w: %v", ErrDecodeFatal, err)
		}
		if err := reg.dispatch(rec); err != nil {
			switch {
			case errors.Is(err, ErrMalformedAxis):
				*skips++
				continue
			case errors.Is(err, ErrGridDrift):
				p.Logger.Printf("grid drift rejected record at t=%.6f", rec.Timestamp)
				continue
			default:
				return err
			}
		}
	}
}

// sealBand replays a band's scratch rows in timestamp order, fixes its
// quantisation range from the reservoir sample, and writes every
// on-disk artifact, each staged and renamed into place: the waterfall
// first and the manifest last, so the band is only discoverable once
// everything else is in place.
func (p *Pipeline) sealBand(ctx context.Context, b *bandBuilder) (BandResult, error) {
	b.mu.Lock()
	b.state = StateQuantising
	rows := append([]rowRef(nil), b.rows...)
	canonical := b.canonical
	unix0 := b.unix0
	scratchPath := b.scratchPath
	reservoirVals := b.reservoir.snapshot()
	driftDrop := b.driftDrop
	b.mu.Unlock()

	if len(rows) == 0 {
		return BandResult{}, ErrEmptyBand
	}

	if err := b.closeScratchForRead(); err != nil {
		return BandResult{}, err
	}
	defer os.Remove(scratchPath)

	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ts != rows[j].ts {
			return rows[i].ts < rows[j].ts
		}
		return rows[i].seq < rows[j].seq
	})

	qr := computeRange(reservoirVals)
	nFreqs := len(canonical)
	nTraces := len(rows)

	scratch, err := os.Open(scratchPath)
	if err != nil {
		return BandResult{}, err
	}
	defer scratch.Close()

	ww, err := CreateWaterfall(p.Layout.WaterfallPath(b.id), nTraces, nFreqs)
	if err != nil {
		return BandResult{}, err
	}

	agg := NewSummaryAggregator(nFreqs)
	relT := make([]int64, nTraces)
	rowBuf := make([]float32, nFreqs)
	q16 := make([]int16, nFreqs)

	for i, rr := range rows {
		if err := ctx.Err(); err != nil {
			ww.Abort()
			return BandResult{}, err
		}
		if _, err := scratch.Seek(rr.offset, io.SeekStart); err != nil {
			ww.Abort()
			return BandResult{}, err
		}
		if err := binary.Read(scratch, binary.LittleEndian, rowBuf); err != nil {
			ww.Abort()
			return BandResult{}, err
		}
		agg.Add(rowBuf)
		for j, v := range rowBuf {
			q16[j] = quantiseValue(float64(v), qr)
		}
		ww.WriteRow(i, q16)
		relT[i] = int64(math.Floor(rr.ts - unix0))
	}
	if err := ww.Seal(); err != nil {
		return BandResult{}, err
	}
	b.mu.Lock()
	b.state = StateIndexed
	b.mu.Unlock()

	pyramid := BuildPyramid(agg.Triple())
	levels := make([]int, len(pyramid))
	for i, lv := range pyramid {
		levels[i] = lv.NBins
	}

	if err := store.WriteFloat64Vector(p.Layout.FreqsPath(b.id), canonical); err != nil {
		return BandResult{}, err
	}
	if err := store.WriteInt64Vector(p.Layout.RelTPath(b.id), relT); err != nil {
		return BandResult{}, err
	}
	if err := store.WriteSummaryArchive(p.Layout.SummaryPath(b.id), agg.Triple()); err != nil {
		return BandResult{}, err
	}
	if err := store.WriteTiers(p.Layout.TiersPath(b.id), store.TierDoc{
		Levels: pyramid, FStart: canonical[0], FStop: canonical[nFreqs-1],
	}); err != nil {
		return BandResult{}, err
	}

	m := store.Manifest{
		DBMin: qr.DBMin, DBMax: qr.DBMax, Scale: qr.Scale,
		NTraces: nTraces, NFreqs: nFreqs,
		FStart: canonical[0], FStop: canonical[nFreqs-1],
		Unix0: unix0, Levels: levels,
	}
	if err := store.WriteManifest(p.Layout.MetaPath(b.id), m); err != nil {
		return BandResult{}, err
	}

	b.mu.Lock()
	b.state = StateSealed
	b.mu.Unlock()

	return BandResult{ID: b.id, Manifest: m, DriftDrops: driftDrop, NTraces: nTraces}, nil
}
