package partition

import (
	"errors"
	"testing"
)

func TestBandsCoverGridExactlyOnce(t *testing.T) {
	for side := 1; side <= 64; side++ {
		for workers := 1; workers <= side; workers++ {
			if side%workers != 0 {
				continue
			}
			spans, err := Bands(side, workers)
			if err != nil {
				t.Fatalf("Bands(%d,%d): %v", side, workers, err)
			}
			owner := make([]int, side)
			for i := range owner {
				owner[i] = -1
			}
			for _, s := range spans {
				if s.End-s.Start != side/workers {
					t.Fatalf("side=%d workers=%d rank %d has %d rows", side, workers, s.Rank, s.End-s.Start)
				}
				for r := s.Start; r < s.End; r++ {
					if owner[r] != -1 {
						t.Fatalf("side=%d workers=%d row %d owned by %d and %d", side, workers, r, owner[r], s.Rank)
					}
					owner[r] = s.Rank
				}
			}
			for r, o := range owner {
				if o == -1 {
					t.Fatalf("side=%d workers=%d row %d not owned", side, workers, r)
				}
			}
		}
	}
}

func TestRingNeighbours(t *testing.T) {
	cases := []struct {
		workers, rank, up, down int
	}{
		{1, 0, 0, 0},
		{2, 0, 1, 1},
		{2, 1, 0, 0},
		{4, 0, 1, 3},
		{4, 3, 0, 2},
		{8, 5, 6, 4},
	}
	for _, tc := range cases {
		p, err := New(Config{GridSide: 16, NumWorkers: tc.workers, Rank: tc.rank})
		if err != nil {
			t.Fatal(err)
		}
		if p.Up() != tc.up || p.Down() != tc.down {
			t.Fatalf("workers=%d rank=%d: up=%d down=%d, expected up=%d down=%d",
				tc.workers, tc.rank, p.Up(), p.Down(), tc.up, tc.down)
		}
	}
}

func TestGeometry(t *testing.T) {
	p, err := New(Config{GridSide: 16, NumWorkers: 4, Rank: 2})
	if err != nil {
		t.Fatal(err)
	}
	if p.BandHeight() != 4 || p.StartRow() != 8 || p.EndRow() != 12 {
		t.Fatalf("height=%d start=%d end=%d", p.BandHeight(), p.StartRow(), p.EndRow())
	}
	if p.IsCoordinator() {
		t.Fatal("rank 2 is not the coordinator")
	}
	q, err := p.ForRank(0)
	if err != nil || !q.IsCoordinator() || q.StartRow() != 0 {
		t.Fatalf("ForRank(0) = %+v, %v", q, err)
	}
}

func TestConfigurationErrors(t *testing.T) {
	bad := []Config{
		{GridSide: 16, NumWorkers: 3, Rank: 0},
		{GridSide: 0, NumWorkers: 1, Rank: 0},
		{GridSide: 16, NumWorkers: 0, Rank: 0},
		{GridSide: 16, NumWorkers: 4, Rank: 4},
		{GridSide: 16, NumWorkers: 4, Rank: -1},
	}
	for _, cfg := range bad {
		_, err := New(cfg)
		var cerr *ConfigurationError
		if !errors.As(err, &cerr) {
			t.Fatalf("New(%+v) error = %v, expected ConfigurationError", cfg, err)
		}
	}
	if _, err := Bands(10, 4); err == nil {
		t.Fatal("Bands(10,4) must fail")
	}
}
