package core

import (
	"slices"
	"testing"
)

func TestGridWrap(t *testing.T) {
	g := NewGrid(16)
	cases := []struct{ r, c, wr, wc int }{
		{-1, -1, 15, 15},
		{16, 0, 0, 0},
		{0, 16, 0, 0},
		{-17, 33, 15, 1},
		{5, 7, 5, 7},
	}
	for _, tc := range cases {
		r, c := g.Wrap(tc.r, tc.c)
		if r != tc.wr || c != tc.wc {
			t.Fatalf("Wrap(%d,%d) = (%d,%d), expected (%d,%d)", tc.r, tc.c, r, c, tc.wr, tc.wc)
		}
	}
}

func TestGridSetAtAndRows(t *testing.T) {
	g := NewGrid(4)
	g.Set(-1, 0, true)
	if g.At(3, 0) != 1 {
		t.Fatal("Set(-1,0) must land on the last row")
	}
	if !slices.Equal(g.Row(-1), []uint8{1, 0, 0, 0}) {
		t.Fatalf("Row(-1) = %v", g.Row(-1))
	}
	rect := g.Rect(3, 2)
	expected := []uint8{1, 0, 0, 0, 0, 0, 0, 0}
	if !slices.Equal(rect, expected) {
		t.Fatalf("Rect(3,2) = %v, expected %v", rect, expected)
	}
	rect[0] = 0
	if g.At(3, 0) != 1 {
		t.Fatal("Rect must return a copy")
	}
	if g.Population() != 1 {
		t.Fatalf("population = %d, expected 1", g.Population())
	}
}

func TestGridFromCellsNormalizes(t *testing.T) {
	g, err := GridFromCells(2, []uint8{0, 255, 7, 0})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(g.Cells(), []uint8{0, 1, 1, 0}) {
		t.Fatalf("cells = %v", g.Cells())
	}
	if _, err := GridFromCells(3, []uint8{0, 1}); err == nil {
		t.Fatal("expected an error for a short cell slice")
	}
}

func TestGridEqualAndClone(t *testing.T) {
	a := NewGrid(3)
	a.Set(1, 1, true)
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatal("clone must be equal")
	}
	b.Set(0, 0, true)
	if a.Equal(b) {
		t.Fatal("mutating a clone changed the source grid")
	}
	if a.Equal(NewGrid(4)) {
		t.Fatal("grids of different sides are never equal")
	}
}

func TestBandRows(t *testing.T) {
	b, err := BandFromCells(4, 2, 3, []uint8{1, 0, 0, 0, 0, 1})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(b.Top(), []uint8{1, 0, 0}) || !slices.Equal(b.Bottom(), []uint8{0, 0, 1}) {
		t.Fatalf("top=%v bottom=%v", b.Top(), b.Bottom())
	}
	if b.EndRow() != 6 {
		t.Fatalf("EndRow = %d, expected 6", b.EndRow())
	}
	if _, err := BandFromCells(0, 2, 3, []uint8{1}); err == nil {
		t.Fatal("expected an error for a malformed band")
	}
}
