package stencil

// View is a read-only window of cells addressed by row and column.
type View interface {
	Rows() int
	Cols() int
	At(row, col int) uint8
}

// CountLiveNeighbors sums the eight toroidal neighbours of (row, col) in v.
// Both coordinates wrap modulo the view's dimensions, so every read is in
// bounds.
func CountLiveNeighbors(v View, row, col int) int {
	rows, cols := v.Rows(), v.Cols()
	n := 0
	for dr := -1; dr <= 1; dr++ {
		r := (row + dr + rows) % rows
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			c := (col + dc + cols) % cols
			n += int(v.At(r, c))
		}
	}
	return n
}
