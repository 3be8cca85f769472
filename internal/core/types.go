package core

// Frame is one rendered generation of the full grid.
type Frame struct {
	Generation int
	Grid       *Grid
}
