package decoder

import (
	"encoding/binary"
	"errors"
	"io"
)

// chunkHeader is the fixed-size header of the reference chunk format:
// a run of raw interleaved float32 I/Q samples captured at CenterHz +-
// SampleHz/2, cut into consecutive FFT windows of Bins samples each.
// One window decodes to one trace.Record. The layout mirrors the
// struct + encoding/binary technique radio/wav/wav.go uses for RIFF
// headers, applied to a format of our own rather than WAVE.
type chunkHeader struct {
	Magic          [4]byte
	Version        uint32
	CenterHz       float64
	SampleHz       float64
	Bins           uint32
	StartUnixMicro int64
}

var chunkMagic = [4]byte{'W', 'F', 'C', '1'}

var (
	ErrBadChunkFormat  = errors.New("decoder: bad chunk format")
	ErrUnsupportedChunk = errors.New("decoder: unsupported chunk version")
)

func readChunkHeader(r io.Reader) (chunkHeader, error) {
	var h chunkHeader
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return h, err
	}
	if h.Magic != chunkMagic {
		return h, ErrBadChunkFormat
	}
	if h.Version != 1 {
		return h, ErrUnsupportedChunk
	}
	if h.Bins == 0 || h.SampleHz <= 0 {
		return h, ErrBadChunkFormat
	}
	return h, nil
}

func writeChunkHeader(w io.Writer, h chunkHeader) error {
	h.Magic = chunkMagic
	h.Version = 1
	return binary.Write(w, binary.LittleEndian, h)
}

// WriteChunk emits a reference-format chunk file: header followed by
// windows, each windows[i] holding exactly bins complex64 I/Q samples.
// It lets callers produce fixtures without hand-rolling the binary
// layout.
func WriteChunk(w io.Writer, centerHz, sampleHz float64, bins uint32, startUnixMicro int64, windows [][]complex64) error {
	if err := writeChunkHeader(w, chunkHeader{
		CenterHz:       centerHz,
		SampleHz:       sampleHz,
		Bins:           bins,
		StartUnixMicro: startUnixMicro,
	}); err != nil {
		return err
	}
	for _, win := range windows {
		if uint32(len(win)) != bins {
			return ErrBadChunkFormat
		}
		iq := make([]float32, 2*len(win))
		for i, s := range win {
			iq[2*i] = real(s)
			iq[2*i+1] = imag(s)
		}
		if err := binary.Write(w, binary.LittleEndian, iq); err != nil {
			return err
		}
	}
	return nil
}
