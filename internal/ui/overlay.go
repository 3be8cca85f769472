//go:build ebiten

package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Overlay marks the band boundaries on top of the grid. B toggles it.
type Overlay struct {
	side    int
	workers int
	scale   int
	show    bool
	pixel   *ebiten.Image
}

// NewOverlay constructs an overlay for a side*side grid split into workers bands.
func NewOverlay(side, workers, scale int) *Overlay {
	o := &Overlay{side: side, workers: workers, scale: scale, show: true}
	o.pixel = ebiten.NewImage(1, 1)
	o.pixel.Fill(color.White)
	return o
}

// Update handles the toggle key.
func (o *Overlay) Update() {
	if inpututil.IsKeyJustPressed(ebiten.KeyB) {
		o.show = !o.show
	}
}

// Draw paints one horizontal line per band boundary.
func (o *Overlay) Draw(screen *ebiten.Image) {
	if !o.show {
		return
	}
	width := float64(o.side * o.scale)
	col := color.RGBA{R: 255, G: 80, B: 80, A: 160}
	for _, y := range bandBoundaries(o.side, o.workers, o.scale) {
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(width, 1)
		op.GeoM.Translate(0, float64(y))
		op.ColorScale.ScaleWithColor(col)
		screen.DrawImage(o.pixel, op)
	}
}
