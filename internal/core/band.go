package core

import (
	"fmt"
	"slices"
)

// Band is a contiguous run of full grid rows owned by a single worker.
type Band struct {
	StartRow int
	Height   int
	Width    int
	data     []uint8
}

// NewBand allocates an empty band of height rows of width cells starting at
// global row start.
func NewBand(start, height, width int) *Band {
	return &Band{StartRow: start, Height: height, Width: width, data: make([]uint8, height*width)}
}

// BandFromCells wraps a copy of cells as a band. The slice length must be
// height*width.
func BandFromCells(start, height, width int, cells []uint8) (*Band, error) {
	if height <= 0 || width <= 0 || len(cells) != height*width {
		return nil, fmt.Errorf("band: %d cells do not form %d rows of %d", len(cells), height, width)
	}
	return &Band{StartRow: start, Height: height, Width: width, data: slices.Clone(cells)}, nil
}

// Cells exposes the row-major backing slice.
func (b *Band) Cells() []uint8 { return b.data }

// Row returns the backing slice of local row r (0 <= r < Height).
func (b *Band) Row(r int) []uint8 { return b.data[r*b.Width : (r+1)*b.Width] }

// Top returns the first owned row.
func (b *Band) Top() []uint8 { return b.Row(0) }

// Bottom returns the last owned row.
func (b *Band) Bottom() []uint8 { return b.Row(b.Height - 1) }

// EndRow is the exclusive global end row.
func (b *Band) EndRow() int { return b.StartRow + b.Height }
