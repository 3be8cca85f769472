package app

import (
	"fmt"
	"slices"
	"time"

	"bandlife/internal/core"
)

// viewParameters appends the viewer's own settings to the run parameters
// shown in the HUD.
func viewParameters(run core.ParameterSnapshot, scale int, interval time.Duration) core.ParameterSnapshot {
	groups := slices.Clone(run.Groups)
	groups = append(groups, core.ParameterGroup{
		Name: "View",
		Params: []core.Parameter{
			core.IntParam("scale", "Scale", scale),
			core.StringParam("interval", "Frame interval", interval.String()),
		},
	})
	return core.ParameterSnapshot{Groups: groups}
}

// WindowTitle names the viewer window after the run's partition.
func WindowTitle(run core.ParameterSnapshot) string {
	workers, ok := run.Lookup("workers")
	if !ok {
		return "bandlife"
	}
	band, _ := run.Lookup("band")
	return fmt.Sprintf("bandlife: %s bands of %s rows", workers, band)
}
