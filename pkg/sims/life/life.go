package life

import (
	"fmt"
	"slices"
)

// Life implements Conway's Game of Life on a single toroidal grid. It is the
// single-process reference the banded runs are checked against.
type Life struct {
	w, h int
	cur  []uint8
	nxt  []uint8
}

// New returns a Life simulation with the provided dimensions.
func New(w, h int) *Life {
	cells := make([]uint8, w*h)
	return &Life{w: w, h: h, cur: cells, nxt: make([]uint8, len(cells))}
}

// FromCells returns a w x h simulation seeded with a copy of cells.
func FromCells(w, h int, cells []uint8) (*Life, error) {
	if len(cells) != w*h {
		return nil, fmt.Errorf("life: %d cells for a %dx%d grid", len(cells), w, h)
	}
	l := New(w, h)
	copy(l.cur, cells)
	return l, nil
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "life" }

// Cells exposes the current grid values.
func (l *Life) Cells() []uint8 { return l.cur }

// Snapshot returns a copy of the current grid values.
func (l *Life) Snapshot() []uint8 { return slices.Clone(l.cur) }

// Step advances the simulation by one generation.
func (l *Life) Step() {
	w, h := l.w, l.h
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			neighbors := 0
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx := (x + dx + w) % w
					ny := (y + dy + h) % h
					neighbors += int(l.cur[ny*w+nx])
				}
			}
			idx := y*w + x
			alive := l.cur[idx] == 1
			l.nxt[idx] = 0
			if (alive && (neighbors == 2 || neighbors == 3)) || (!alive && neighbors == 3) {
				l.nxt[idx] = 1
			}
		}
	}
	l.cur, l.nxt = l.nxt, l.cur
}

// Run steps n generations and returns a copy of every generation after each
// step.
func (l *Life) Run(n int) [][]uint8 {
	out := make([][]uint8, 0, n)
	for i := 0; i < n; i++ {
		l.Step()
		out = append(out, l.Snapshot())
	}
	return out
}
