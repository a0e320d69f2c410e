package decoder

import (
	"encoding/binary"
	"errors"
	"io"
	"math"
	"math/cmplx"
	"os"

	"github.com/runningwild/go-fftw/fftw32"

	"github.com/nicerx/waterfallidx/trace"
)

// ReferenceOpener decodes the reference chunk format (chunk.go): raw
// I/Q windows turned into power spectra via FFT, the same computation
// radio.SpectralPower.Measure and nicerx/spectogram.go perform on live
// capture batches, just replayed from a file instead of an SDR.
type ReferenceOpener struct{}

func (ReferenceOpener) Open(path string) (Iterator, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	hdr, err := readChunkHeader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &referenceIterator{
		f:       f,
		hdr:     hdr,
		freqs:   windowFreqs(hdr.CenterHz, hdr.SampleHz, int(hdr.Bins)),
		winIdx:  0,
		iqBuf:   make([]float32, 2*hdr.Bins),
		fftArr:  fftw32.NewArray(int(hdr.Bins)),
	}, nil
}

type referenceIterator struct {
	f      *os.File
	hdr    chunkHeader
	freqs  []float64
	winIdx int64
	iqBuf  []float32
	fftArr *fftw32.Array
}

func (it *referenceIterator) Next() (trace.Record, error) {
	if err := binary.Read(it.f, binary.LittleEndian, it.iqBuf); err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return trace.Record{}, io.EOF
		}
		return trace.Record{}, err
	}
	samps := it.fftArr.Elems
	for i := range samps {
		samps[i] = complex(it.iqBuf[2*i], it.iqBuf[2*i+1])
	}
	fft := fftw32.FFT(it.fftArr)
	bins := len(fft.Elems)
	power := make([]float64, bins)
	for i, v := range fft.Elems {
		idx := (i + bins/2) % bins
		mag := cmplx.Abs(complex128(v))
		if mag <= 0 {
			mag = 1e-12
		}
		power[idx] = 20 * math.Log10(mag)
	}

	windowSeconds := float64(it.hdr.Bins) / it.hdr.SampleHz
	ts := float64(it.hdr.StartUnixMicro)/1e6 + float64(it.winIdx)*windowSeconds
	it.winIdx++

	return trace.Record{Timestamp: ts, Freqs: it.freqs, Power: power}, nil
}

func (it *referenceIterator) Close() error { return it.f.Close() }

// windowFreqs lays out the bin centers the same way
// radio.SpectralPower.freq does: DC in the middle bin, negative
// frequencies below center, positive above.
func windowFreqs(centerHz, sampleHz float64, bins int) []float64 {
	freqs := make([]float64, bins)
	binHz := sampleHz / float64(bins)
	for i := range freqs {
		freqs[i] = centerHz + float64(i-bins/2)*binHz
	}
	return freqs
}
