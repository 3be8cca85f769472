//go:build ebiten

package ui

import (
	"image/color"

	"bandlife/internal/core"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
)

// HUD renders the run parameters to the right of the grid view.
type HUD struct {
	width      int
	panel      *ebiten.Image
	lastHeight int
	snapshot   core.ParameterSnapshot
	lines      []HUDLine
}

// NewHUD constructs a HUD showing snapshot in a panel of the given width.
func NewHUD(snapshot core.ParameterSnapshot, width int) *HUD {
	if width < 0 {
		width = 0
	}
	return &HUD{width: width, snapshot: snapshot}
}

// Update refreshes the panel text from the latest frame.
func (h *HUD) Update(frame core.Frame, paused bool) {
	if h == nil {
		return
	}
	pop := 0
	if frame.Grid != nil {
		pop = frame.Grid.Population()
	}
	h.lines = hudLines(h.snapshot, frame.Generation, pop, paused)
}

// Draw paints the HUD panel anchored at offsetX.
func (h *HUD) Draw(screen *ebiten.Image, offsetX, height int) {
	if h == nil || h.width <= 0 || height <= 0 {
		return
	}
	if h.panel == nil || h.lastHeight != height {
		h.panel = ebiten.NewImage(h.width, height)
		h.lastHeight = height
	}
	h.panel.Fill(color.RGBA{R: 16, G: 16, B: 20, A: 255})

	face := basicfont.Face7x13
	y := panelPadding + headerBaseline
	for i, line := range h.lines {
		col := color.RGBA{R: 220, G: 220, B: 230, A: 255}
		if line.Header {
			if i > 0 {
				y += groupSpacing
			}
			col = color.RGBA{R: 200, G: 200, B: 210, A: 255}
		}
		text.Draw(h.panel, line.Text, face, panelPadding, y, col)
		y += lineSpacing
	}

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(offsetX), 0)
	screen.DrawImage(h.panel, op)
}
