package halo

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"

	"bandlife/internal/core"
	"bandlife/internal/partition"
	"bandlife/internal/transport"
	pcore "bandlife/pkg/core"
)

func randomGrid(side int, seed int64) *core.Grid {
	g := core.NewGrid(side)
	pcore.NewRNG(seed).FillDensity(g.Cells(), 0.4)
	return g
}

// exchangeAll runs one exchange on every rank and returns the ghosts by rank.
func exchangeAll(t *testing.T, g *core.Grid, workers int, strategy Strategy) []Ghosts {
	t.Helper()
	mesh := transport.NewLocal(workers)
	defer mesh.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	ghosts := make([]Ghosts, workers)
	eg, ectx := errgroup.WithContext(ctx)
	for r := 0; r < workers; r++ {
		eg.Go(func() error {
			part, err := partition.New(partition.Config{GridSide: g.Side, NumWorkers: workers, Rank: r})
			if err != nil {
				return err
			}
			band, err := core.BandFromCells(part.StartRow(), part.BandHeight(), g.Side, g.Rect(part.StartRow(), part.BandHeight()))
			if err != nil {
				return err
			}
			gh, err := Exchange(ectx, mesh.Comm(r), part, band, strategy)
			ghosts[r] = gh
			return err
		})
	}
	if err := eg.Wait(); err != nil {
		t.Fatalf("workers=%d strategy=%v: %v", workers, strategy, err)
	}
	return ghosts
}

func TestExchangeDeliversNeighbourRows(t *testing.T) {
	const side = 48
	g := randomGrid(side, 11)
	for _, strategy := range []Strategy{Parity, Async} {
		for _, workers := range []int{1, 2, 3, 4, 6, 8, 12, 16} {
			ghosts := exchangeAll(t, g, workers, strategy)
			h := side / workers
			for r, gh := range ghosts {
				start := r * h
				if !slices.Equal(gh.Above, g.Row(start-1)) {
					t.Fatalf("%v workers=%d rank %d: ghost above is not row %d", strategy, workers, r, core.Mod(start-1, side))
				}
				if !slices.Equal(gh.Below, g.Row(start+h)) {
					t.Fatalf("%v workers=%d rank %d: ghost below is not row %d", strategy, workers, r, core.Mod(start+h, side))
				}
			}
		}
	}
}

func TestExchangeRepeatedRoundsDoNotDeadlock(t *testing.T) {
	const side = 16
	g := randomGrid(side, 5)
	for _, workers := range []int{2, 4, 8, 16} {
		for round := 0; round < 10; round++ {
			exchangeAll(t, g, workers, Parity)
		}
	}
}

func TestSingleWorkerWrapsOntoItself(t *testing.T) {
	band, _ := core.BandFromCells(0, 3, 2, []uint8{1, 0, 0, 0, 0, 1})
	part, _ := partition.New(partition.Config{GridSide: 3, NumWorkers: 1})
	gh, err := Exchange(context.Background(), nil, part, band, Parity)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(gh.Above, []uint8{0, 1}) || !slices.Equal(gh.Below, []uint8{1, 0}) {
		t.Fatalf("ghosts = %+v", gh)
	}
	gh.Above[0] = 9
	if band.Bottom()[0] == 9 {
		t.Fatal("ghosts must be copies")
	}
}

// scriptedComm answers every receive with a fixed row or error.
type scriptedComm struct {
	rank int
	size int
	row  []uint8
	err  error
}

func (c *scriptedComm) Rank() int { return c.rank }
func (c *scriptedComm) Size() int { return c.size }
func (c *scriptedComm) Send(context.Context, int, transport.Tag, []uint8) error {
	return nil
}
func (c *scriptedComm) Recv(context.Context, int, transport.Tag) ([]uint8, error) {
	return c.row, c.err
}
func (c *scriptedComm) Barrier(context.Context) error { return nil }
func (c *scriptedComm) Close() error                  { return nil }

func TestExchangeRejectsShortRow(t *testing.T) {
	part, _ := partition.New(partition.Config{GridSide: 4, NumWorkers: 2})
	band := core.NewBand(0, 2, 4)
	for _, strategy := range []Strategy{Parity, Async} {
		_, err := Exchange(context.Background(), &scriptedComm{size: 2, row: []uint8{1, 1}}, part, band, strategy)
		var terr *transport.Error
		if !errors.As(err, &terr) {
			t.Fatalf("%v: error = %v, expected a transport error", strategy, err)
		}
	}
}

func TestExchangePropagatesTransportError(t *testing.T) {
	part, _ := partition.New(partition.Config{GridSide: 4, NumWorkers: 2, Rank: 1})
	band := core.NewBand(2, 2, 4)
	boom := &transport.Error{Op: "recv", Rank: 1, Peer: 0, Err: errors.New("link down")}
	_, err := Exchange(context.Background(), &scriptedComm{rank: 1, size: 2, err: boom}, part, band, Parity)
	if !errors.Is(err, boom) {
		t.Fatalf("error = %v, expected %v", err, boom)
	}
}

func TestParseStrategy(t *testing.T) {
	for in, want := range map[string]Strategy{"": Parity, "parity": Parity, "ASYNC": Async} {
		got, err := ParseStrategy(in)
		if err != nil || got != want {
			t.Fatalf("ParseStrategy(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseStrategy("eager"); err == nil {
		t.Fatal("expected an error for an unknown strategy")
	}
}
