package stencil

import (
	"fmt"

	"bandlife/internal/core"
)

// Window stacks a ghost row above and below a band. Row 0 is the ghost above,
// rows 1..Height are the band and row Height+1 is the ghost below.
type Window struct {
	band         *core.Band
	above, below []uint8
}

// NewWindow builds a read-only view of band framed by its ghost rows.
func NewWindow(band *core.Band, above, below []uint8) (*Window, error) {
	if len(above) != band.Width || len(below) != band.Width {
		return nil, fmt.Errorf("stencil: ghost rows of %d and %d cells for a band %d wide",
			len(above), len(below), band.Width)
	}
	return &Window{band: band, above: above, below: below}, nil
}

// Rows reports the band height plus both ghost rows.
func (w *Window) Rows() int { return w.band.Height + 2 }

// Cols reports the band width.
func (w *Window) Cols() int { return w.band.Width }

// At returns the cell at window coordinates (row, col).
func (w *Window) At(row, col int) uint8 {
	switch {
	case row == 0:
		return w.above[col]
	case row == w.band.Height+1:
		return w.below[col]
	default:
		return w.band.Row(row - 1)[col]
	}
}

// Stepper advances one band by double buffering: every generation reads the
// front buffer and the ghosts, fills the back buffer and swaps.
type Stepper struct {
	cur *core.Band
	nxt *core.Band
}

// NewStepper takes ownership of band as the generation-zero state.
func NewStepper(band *core.Band) *Stepper {
	return &Stepper{cur: band, nxt: core.NewBand(band.StartRow, band.Height, band.Width)}
}

// Band returns the current generation. Callers must not modify it.
func (s *Stepper) Band() *core.Band { return s.cur }

// Step computes the next generation from the current band and the ghost rows
// for this generation. The ghosts are not retained.
func (s *Stepper) Step(above, below []uint8) error {
	win, err := NewWindow(s.cur, above, below)
	if err != nil {
		return err
	}
	for r := 0; r < s.cur.Height; r++ {
		src := s.cur.Row(r)
		dst := s.nxt.Row(r)
		for c := range dst {
			alive := src[c] == 1
			dst[c] = 0
			if NextState(alive, CountLiveNeighbors(win, r+1, c)) {
				dst[c] = 1
			}
		}
	}
	s.cur, s.nxt = s.nxt, s.cur
	return nil
}
