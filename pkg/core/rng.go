package core

import "math/rand/v2"

// RNG wraps math/rand/v2 with a PCG source so seeded grids are reproducible
// across runs and platforms.
type RNG struct {
	r *rand.Rand
}

// NewRNG creates a deterministic RNG using the provided seed.
func NewRNG(seed int64) *RNG {
	return &RNG{r: rand.New(rand.NewPCG(uint64(seed), 0))}
}

// Alive reports true with probability density, clamped to [0, 1].
func (r *RNG) Alive(density float64) bool {
	switch {
	case density <= 0:
		return false
	case density >= 1:
		return true
	}
	return r.r.Float64() < density
}

// FillDensity sets each cell of buf to 1 with probability density.
func (r *RNG) FillDensity(buf []uint8, density float64) {
	for i := range buf {
		buf[i] = 0
		if r.Alive(density) {
			buf[i] = 1
		}
	}
}
