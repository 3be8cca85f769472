//go:build ebiten

package app

import (
	"image/color"

	"bandlife/internal/core"
	"bandlife/internal/render"
	"bandlife/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const hudWidth = 220

// Viewer adapts a stream of gathered frames to the ebiten.Game interface.
type Viewer struct {
	frames  <-chan core.Frame
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.FixedStep

	current    core.Frame
	side       int
	bandHeight int
	scale      int
	paused     bool
	tickOnce   bool
	tinted     bool
	done       bool
}

// NewViewer constructs a Viewer for frames of a side*side grid split into
// workers bands, showing fps generations per second.
func NewViewer(frames <-chan core.Frame, side, workers, scale, fps int, params core.ParameterSnapshot) *Viewer {
	if scale <= 0 {
		scale = 1
	}
	pacer := core.NewFixedStep(fps)
	return &Viewer{
		frames:     frames,
		painter:    render.NewGridPainter(side, side),
		overlay:    ui.NewOverlay(side, workers, scale),
		hud:        ui.NewHUD(viewParameters(params, scale, pacer.Interval()), hudWidth),
		pacer:      pacer,
		current:    core.Frame{Generation: -1, Grid: core.NewGrid(side)},
		side:       side,
		bandHeight: side / max(workers, 1),
		scale:      scale,
		tinted:     true,
	}
}

// Update handles input and pulls the next frame when one is due.
func (g *Viewer) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.tinted = !g.tinted
	}
	g.overlay.Update()

	due := g.pacer.ShouldStep()
	if (!g.paused && due) || g.tickOnce {
		g.tickOnce = false
		g.next()
	}
	g.hud.Update(g.current, g.paused)
	return nil
}

func (g *Viewer) next() {
	if g.done {
		return
	}
	select {
	case f, ok := <-g.frames:
		if !ok {
			g.done = true
			return
		}
		g.current = f
	default:
	}
}

// Draw renders the latest frame, the band overlay and the HUD.
func (g *Viewer) Draw(screen *ebiten.Image) {
	cells := g.current.Grid.Cells()
	if g.tinted {
		g.painter.BlitBands(screen, cells, g.bandHeight, color.RGBA{A: 255}, g.scale)
	} else {
		g.painter.Blit(screen, cells, color.White, color.Black, g.scale)
	}
	g.overlay.Draw(screen)
	g.hud.Draw(screen, g.side*g.scale, g.side*g.scale)
}

// Layout returns the logical screen size.
func (g *Viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.side*g.scale + hudWidth, g.side * g.scale
}
