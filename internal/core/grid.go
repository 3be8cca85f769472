package core

import (
	"fmt"
	"slices"
	"strings"
)

// Grid stores a square toroidal lattice of 0/1 cells in row-major order.
type Grid struct {
	Side int
	data []uint8
}

// NewGrid allocates an empty grid with the given side length.
func NewGrid(side int) *Grid {
	if side <= 0 {
		side = 1
	}
	return &Grid{Side: side, data: make([]uint8, side*side)}
}

// GridFromCells wraps a copy of cells, which must hold exactly side*side values.
func GridFromCells(side int, cells []uint8) (*Grid, error) {
	if side <= 0 || len(cells) != side*side {
		return nil, fmt.Errorf("grid: %d cells do not form a %dx%d grid", len(cells), side, side)
	}
	g := &Grid{Side: side, data: make([]uint8, len(cells))}
	for i, c := range cells {
		if c != 0 {
			g.data[i] = 1
		}
	}
	return g, nil
}

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []uint8 { return g.data }

// Rows reports the number of rows.
func (g *Grid) Rows() int { return g.Side }

// Cols reports the number of columns.
func (g *Grid) Cols() int { return g.Side }

// Index returns the linear slice index for (row, col).
func (g *Grid) Index(row, col int) int { return row*g.Side + col }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(row, col int) (int, int) {
	return Mod(row, g.Side), Mod(col, g.Side)
}

// At returns the cell at (row, col) after wrapping.
func (g *Grid) At(row, col int) uint8 {
	row, col = g.Wrap(row, col)
	return g.data[g.Index(row, col)]
}

// Set stores alive at (row, col) after wrapping.
func (g *Grid) Set(row, col int, alive bool) {
	row, col = g.Wrap(row, col)
	var v uint8
	if alive {
		v = 1
	}
	g.data[g.Index(row, col)] = v
}

// Row returns the backing slice of one row. The row index is wrapped.
func (g *Grid) Row(row int) []uint8 {
	row = Mod(row, g.Side)
	return g.data[row*g.Side : (row+1)*g.Side]
}

// Rect returns a copy of rows [start, start+n).
func (g *Grid) Rect(start, n int) []uint8 {
	out := make([]uint8, 0, n*g.Side)
	for r := start; r < start+n; r++ {
		out = append(out, g.Row(r)...)
	}
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{Side: g.Side, data: slices.Clone(g.data)}
}

// Equal reports whether both grids have the same side and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	return g.Side == o.Side && slices.Equal(g.data, o.data)
}

// Population counts the live cells.
func (g *Grid) Population() int {
	n := 0
	for _, c := range g.data {
		n += int(c)
	}
	return n
}

// String renders the grid as lines of '#' and '.'.
func (g *Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.Side; r++ {
		for _, c := range g.Row(r) {
			if c != 0 {
				b.WriteByte('#')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// Mod returns the non-negative remainder of a divided by n.
func Mod(a, n int) int {
	return (a%n + n) % n
}
