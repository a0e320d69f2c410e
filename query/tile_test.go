package query

import (
	"testing"

	"github.com/nicerx/waterfallidx/store"
)

func TestBuildTileProducesRequestedDimensions(t *testing.T) {
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

	tile := BuildTile(h, TileRequest{Width: 8, Height: 4})
	if tile.Img.Bounds().Dx() != 8 || tile.Img.Bounds().Dy() != 4 {
		t.Fatalf("got image %dx%d, want 8x4", tile.Img.Bounds().Dx(), tile.Img.Bounds().Dy())
	}
	if len(tile.Freqs) != 8 {
		t.Fatalf("got %d freq labels, want 8", len(tile.Freqs))
	}
	if len(tile.Times) != 4 {
		t.Fatalf("got %d time labels, want 4", len(tile.Times))
	}

	png, err := EncodePNG(tile)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) == 0 {
		t.Fatal("EncodePNG returned empty bytes")
	}
}

func TestDbToIndexClamps(t *testing.T) {
	if v := dbToIndex(-1000, -80, -20); v != 0 {
		t.Fatalf("below range got %d, want 0", v)
	}
	if v := dbToIndex(1000, -80, -20); v != 255 {
		t.Fatalf("above range got %d, want 255", v)
	}
}
