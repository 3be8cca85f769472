package render

import (
	"image/color"
	"slices"
	"testing"
)

func TestFillBinaryRGBA(t *testing.T) {
	buf := make([]byte, 8)
	fillBinaryRGBA(buf, []uint8{1, 0}, color.White, color.Black)
	want := []byte{255, 255, 255, 255, 0, 0, 0, 255}
	if !slices.Equal(buf, want) {
		t.Fatalf("buf = %v, expected %v", buf, want)
	}
}

func TestFillBandRGBA(t *testing.T) {
	// 2x4 grid, bands of one row, both cells of column 0 alive.
	cells := []uint8{1, 0, 1, 0}
	palette := []color.RGBA{{R: 1, A: 255}, {G: 2, A: 255}}
	off := color.RGBA{A: 255}
	buf := make([]byte, len(cells)*4)
	fillBandRGBA(buf, cells, 2, 1, palette, off)

	if !slices.Equal(buf[0:4], []byte{1, 0, 0, 255}) {
		t.Fatalf("row 0 live cell = %v, expected the first band colour", buf[0:4])
	}
	if !slices.Equal(buf[8:12], []byte{0, 2, 0, 255}) {
		t.Fatalf("row 1 live cell = %v, expected the second band colour", buf[8:12])
	}
	if !slices.Equal(buf[4:8], []byte{0, 0, 0, 255}) {
		t.Fatalf("dead cell = %v", buf[4:8])
	}

	fillBandRGBA(buf, cells, 2, 0, nil, off)
	if !slices.Equal(buf[0:4], []byte{255, 255, 255, 255}) {
		t.Fatalf("empty palette live cell = %v, expected white", buf[0:4])
	}
}
