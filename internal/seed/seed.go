// Package seed builds the generation-zero grid the coordinator scatters to
// the workers.
package seed

import (
	"fmt"
	"sort"
	"strings"

	"bandlife/internal/core"
	pcore "bandlife/pkg/core"
)

// Options select and size a built-in pattern.
type Options struct {
	Pattern  string
	Side     int
	Density  float64
	RandSeed int64
}

type builder func(o Options) *core.Grid

var patterns = map[string]builder{
	"glider":  func(o Options) *core.Grid { return place(o.Side, Glider) },
	"blinker": func(o Options) *core.Grid { return place(o.Side, [][2]int{{1, 0}, {1, 1}, {1, 2}}) },
	"block":   func(o Options) *core.Grid { return place(o.Side, [][2]int{{0, 0}, {0, 1}, {1, 0}, {1, 1}}) },
	"empty":   func(o Options) *core.Grid { return core.NewGrid(o.Side) },
	"random": func(o Options) *core.Grid {
		g := core.NewGrid(o.Side)
		pcore.NewRNG(o.RandSeed).FillDensity(g.Cells(), o.Density)
		return g
	},
}

// Glider is the five-cell glider in the top-left corner, as (row, col).
var Glider = [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}

// Names lists the built-in patterns.
func Names() []string {
	names := make([]string, 0, len(patterns))
	for n := range patterns {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Build returns the grid for o.
func Build(o Options) (*core.Grid, error) {
	if o.Side <= 0 {
		return nil, fmt.Errorf("seed: grid side must be positive, got %d", o.Side)
	}
	b, ok := patterns[strings.ToLower(o.Pattern)]
	if !ok {
		return nil, fmt.Errorf("seed: unknown pattern %q (known: %s)", o.Pattern, strings.Join(Names(), ", "))
	}
	return b(o), nil
}

// place sets every (row, col) of cells alive on an empty grid, wrapping.
func place(side int, cells [][2]int) *core.Grid {
	g := core.NewGrid(side)
	for _, c := range cells {
		g.Set(c[0], c[1], true)
	}
	return g
}

// ParseRows reads one string per row. '1' and '#' are alive, '0' and '.'
// are dead and spaces are ignored.
func ParseRows(rows []string) (*core.Grid, error) {
	side := len(rows)
	if side == 0 {
		return nil, fmt.Errorf("seed: no rows")
	}
	g := core.NewGrid(side)
	for r, line := range rows {
		line = strings.ReplaceAll(line, " ", "")
		if len(line) != side {
			return nil, fmt.Errorf("seed: row %d has %d cells, expected %d", r, len(line), side)
		}
		for c, ch := range line {
			switch ch {
			case '1', '#':
				g.Set(r, c, true)
			case '0', '.':
			default:
				return nil, fmt.Errorf("seed: row %d col %d: unexpected %q", r, c, ch)
			}
		}
	}
	return g, nil
}
