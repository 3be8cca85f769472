// Package stencil evaluates the Game of Life update for a band of rows using
// only the band itself and the ghost rows that border it.
package stencil

// NextState applies the Life rule: three live neighbours give birth or
// survival, two keep the current state, anything else is dead.
func NextState(alive bool, liveNeighbors int) bool {
	switch liveNeighbors {
	case 3:
		return true
	case 2:
		return alive
	default:
		return false
	}
}
