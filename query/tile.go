package query

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
)

// TileRequest describes a rendered waterfall tile: a time window, a
// frequency window, and the output pixel dimensions. Nil bounds span
// the band's full range on that axis.
type TileRequest struct {
	T0, T1        *float64
	F0, F1        *float64
	Width, Height int
}

// Tile is a rendered waterfall crop plus the axis values its pixel
// columns and rows represent.
type Tile struct {
	Img   *image.Paletted
	Freqs []float64
	Times []int64
}

// BuildTile box-averages a band's quantised rows down to the
// requested pixel grid, time first then frequency, then maps each
// averaged dB value through the fixed colormap.
func BuildTile(h *BandHandle, req TileRequest) *Tile {
	width, height := req.Width, req.Height
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}

	tlo, thi := WindowIndices(h.RelT, req.T0, req.T1)
	if thi <= tlo {
		thi = tlo + 1
	}
	if thi > len(h.RelT) {
		thi = len(h.RelT)
		tlo = thi - 1
	}
	if tlo < 0 {
		tlo = 0
	}
	nRows := thi - tlo

	flo, fhi := freqIndexRange(h.Freqs, req.F0, req.F1)
	nCols := fhi - flo

	rowsAvg := make([][]float64, height)
	for g := 0; g < height; g++ {
		a := tlo + g*nRows/height
		b := tlo + (g+1)*nRows/height
		if b <= a {
			b = a + 1
		}
		if b > thi {
			b = thi
		}
		acc := make([]float64, nCols)
		count := 0
		for i := a; i < b; i++ {
			row := h.Row(i)
			for j := flo; j < fhi; j++ {
				acc[j-flo] += h.Dequantise(row[j])
			}
			count++
		}
		if count > 0 {
			for j := range acc {
				acc[j] /= float64(count)
			}
		}
		rowsAvg[g] = acc
	}

	palette := make(color.Palette, 256)
	for i, c := range colormap {
		palette[i] = color.RGBA{c.r, c.g, c.b, 255}
	}
	img := image.NewPaletted(image.Rect(0, 0, width, height), palette)

	for y := 0; y < height; y++ {
		row := rowsAvg[y]
		for x := 0; x < width; x++ {
			a := x * nCols / width
			b := (x + 1) * nCols / width
			if b <= a {
				b = a + 1
			}
			if b > nCols {
				b = nCols
			}
			sum, count := 0.0, 0
			for j := a; j < b; j++ {
				sum += row[j]
				count++
			}
			var v float64
			if count > 0 {
				v = sum / float64(count)
			}
			img.SetColorIndex(x, y, dbToIndex(v, h.Manifest.DBMin, h.Manifest.DBMax))
		}
	}

	freqs := make([]float64, width)
	for x := 0; x < width; x++ {
		a := flo + x*nCols/width
		b := flo + (x+1)*nCols/width
		if b <= a {
			b = a + 1
		}
		if b > fhi {
			b = fhi
		}
		mid := (a + b - 1) / 2
		if mid >= len(h.Freqs) {
			mid = len(h.Freqs) - 1
		}
		freqs[x] = h.Freqs[mid]
	}
	times := make([]int64, height)
	for y := 0; y < height; y++ {
		a := tlo + y*nRows/height
		b := tlo + (y+1)*nRows/height
		if b <= a {
			b = a + 1
		}
		if b > thi {
			b = thi
		}
		mid := (a + b - 1) / 2
		if mid >= len(h.RelT) {
			mid = len(h.RelT) - 1
		}
		times[y] = h.RelT[mid]
	}

	return &Tile{Img: img, Freqs: freqs, Times: times}
}

func dbToIndex(v, dbMin, dbMax float64) uint8 {
	if dbMax <= dbMin {
		return 0
	}
	t := (v - dbMin) / (dbMax - dbMin)
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	return uint8(math.Round(t * 255))
}

// EncodePNG renders a tile's image as PNG bytes.
func EncodePNG(t *Tile) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, t.Img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
