//go:build !ebiten

package app

import (
	"fmt"

	"bandlife/internal/core"
)

// Viewer is a placeholder that satisfies the API expected by the GUI build.
type Viewer struct{}

// NewViewer panics to indicate that the ebiten build tag is required for GUI support.
func NewViewer(<-chan core.Frame, int, int, int, int, core.ParameterSnapshot) *Viewer {
	panic("app.NewViewer requires building with the 'ebiten' tag")
}

// Update always reports that the GUI build tag is missing.
func (g *Viewer) Update() error {
	return fmt.Errorf("app.Viewer.Update requires building with the 'ebiten' tag")
}

// Draw is a no-op placeholder to satisfy the interface shape.
func (g *Viewer) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Viewer) Layout(int, int) (int, int) { return 0, 0 }
