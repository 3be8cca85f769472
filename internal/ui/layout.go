// Package ui draws the viewer's side panel and partition overlay.
package ui

import (
	"fmt"

	"bandlife/internal/core"
)

const (
	panelPadding   = 12
	headerBaseline = 14
	lineSpacing    = 18
	groupSpacing   = 10
)

// HUDLine is one line of panel text. Header lines open a parameter group.
type HUDLine struct {
	Text   string
	Header bool
}

// hudLines flattens a parameter snapshot plus the live frame state into panel
// text, one line per parameter.
func hudLines(snapshot core.ParameterSnapshot, gen, population int, paused bool) []HUDLine {
	state := fmt.Sprintf("gen %d  pop %d", gen, population)
	if paused {
		state += "  paused"
	}
	lines := []HUDLine{{Text: state, Header: true}}
	for _, g := range snapshot.Groups {
		lines = append(lines, HUDLine{Text: g.Name, Header: true})
		for _, p := range g.Params {
			lines = append(lines, HUDLine{Text: fmt.Sprintf("%s: %s", p.Label, p.Value)})
		}
	}
	return lines
}

// bandBoundaries returns the screen y coordinate of the top edge of every band
// after the first, for a grid of side cells split across workers bands.
func bandBoundaries(side, workers, scale int) []int {
	if workers <= 1 || side <= 0 || side%workers != 0 {
		return nil
	}
	if scale <= 0 {
		scale = 1
	}
	h := side / workers
	out := make([]int, 0, workers-1)
	for r := 1; r < workers; r++ {
		out = append(out, r*h*scale)
	}
	return out
}
