// Package partition maps worker ranks to the contiguous row bands they own
// and to their neighbours on the band ring.
package partition

import "fmt"

// Config describes one worker's place in the run.
type Config struct {
	GridSide   int
	NumWorkers int
	Rank       int
}

// ConfigurationError reports a grid/worker combination the run cannot use.
type ConfigurationError struct {
	Config Config
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: %s (side=%d workers=%d rank=%d)",
		e.Reason, e.Config.GridSide, e.Config.NumWorkers, e.Config.Rank)
}

// Partition is a validated Config with its derived band geometry.
type Partition struct {
	Config
	height int
}

// Validate checks cfg without deriving anything.
func Validate(cfg Config) error {
	switch {
	case cfg.GridSide <= 0:
		return &ConfigurationError{Config: cfg, Reason: "grid side must be positive"}
	case cfg.NumWorkers <= 0:
		return &ConfigurationError{Config: cfg, Reason: "worker count must be positive"}
	case cfg.Rank < 0 || cfg.Rank >= cfg.NumWorkers:
		return &ConfigurationError{Config: cfg, Reason: "rank out of range"}
	case cfg.GridSide%cfg.NumWorkers != 0:
		return &ConfigurationError{Config: cfg, Reason: "grid side is not divisible by the worker count"}
	}
	return nil
}

// New validates cfg and returns its partition.
func New(cfg Config) (Partition, error) {
	if err := Validate(cfg); err != nil {
		return Partition{}, err
	}
	return Partition{Config: cfg, height: cfg.GridSide / cfg.NumWorkers}, nil
}

// BandHeight is the number of rows every worker owns.
func (p Partition) BandHeight() int { return p.height }

// StartRow is the first global row owned by this rank.
func (p Partition) StartRow() int { return p.Rank * p.height }

// EndRow is the exclusive end of this rank's rows.
func (p Partition) EndRow() int { return p.StartRow() + p.height }

// Up is the rank whose top row borders this band from below.
func (p Partition) Up() int { return (p.Rank + 1) % p.NumWorkers }

// Down is the rank whose bottom row borders this band from above.
func (p Partition) Down() int { return (p.Rank - 1 + p.NumWorkers) % p.NumWorkers }

// IsCoordinator reports whether this rank gathers and reports the grid.
func (p Partition) IsCoordinator() bool { return p.Rank == Coordinator }

// ForRank returns the partition of another rank in the same run.
func (p Partition) ForRank(rank int) (Partition, error) {
	cfg := p.Config
	cfg.Rank = rank
	return New(cfg)
}

// Coordinator is the rank that owns aggregation and reporting.
const Coordinator = 0

// Span is a half-open row range [Start, End).
type Span struct {
	Rank       int
	Start, End int
}

// Bands lists the span of every rank for a grid of side rows split among
// workers.
func Bands(side, workers int) ([]Span, error) {
	if err := Validate(Config{GridSide: side, NumWorkers: workers}); err != nil {
		return nil, err
	}
	spans := make([]Span, workers)
	for r := range spans {
		p, _ := New(Config{GridSide: side, NumWorkers: workers, Rank: r})
		spans[r] = Span{Rank: r, Start: p.StartRow(), End: p.EndRow()}
	}
	return spans, nil
}
