// Package worker drives one rank through the generation loop and runs a
// whole group of ranks as goroutines.
package worker

import (
	"context"
	"fmt"
	"io"

	"github.com/sirupsen/logrus"

	"bandlife/internal/core"
	"bandlife/internal/gather"
	"bandlife/internal/halo"
	"bandlife/internal/partition"
	"bandlife/internal/stencil"
	"bandlife/internal/transport"
)

// TagScatter carries a worker's generation-zero band from the coordinator.
const TagScatter transport.Tag = 4

// Options configure a run. Seed and Reporter are only read on the
// coordinator.
type Options struct {
	Side       int
	Workers    int
	Iterations int
	Strategy   halo.Strategy
	Seed       *core.Grid
	Reporter   gather.Reporter
	Logger     logrus.FieldLogger
}

// Parameters describes the run for the viewer HUD.
func (o Options) Parameters() core.ParameterSnapshot {
	return core.ParameterSnapshot{Groups: []core.ParameterGroup{{
		Name: "Run",
		Params: []core.Parameter{
			core.IntParam("side", "Grid side", o.Side),
			core.IntParam("workers", "Workers", o.Workers),
			core.IntParam("band", "Band height", o.Side/max(o.Workers, 1)),
			core.IntParam("iterations", "Iterations", o.Iterations),
			core.StringParam("exchange", "Exchange", o.Strategy.String()),
		},
	}}}
}

func (o Options) logger() logrus.FieldLogger {
	if o.Logger != nil {
		return o.Logger
	}
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Worker owns one band for the duration of a run.
type Worker struct {
	part partition.Partition
	comm transport.Comm
	opts Options
	log  logrus.FieldLogger
}

// New binds comm to its band. The group size of comm must match
// opts.Workers.
func New(comm transport.Comm, opts Options) (*Worker, error) {
	if comm.Size() != opts.Workers {
		return nil, fmt.Errorf("worker: transport has %d ranks, run expects %d", comm.Size(), opts.Workers)
	}
	part, err := partition.New(partition.Config{GridSide: opts.Side, NumWorkers: opts.Workers, Rank: comm.Rank()})
	if err != nil {
		return nil, err
	}
	if part.IsCoordinator() {
		if opts.Seed == nil || opts.Seed.Side != opts.Side {
			return nil, fmt.Errorf("worker: coordinator needs a %dx%d seed", opts.Side, opts.Side)
		}
	}
	return &Worker{
		part: part,
		comm: comm,
		opts: opts,
		log:  opts.logger().WithField("rank", part.Rank),
	}, nil
}

// Partition returns the worker's band geometry.
func (w *Worker) Partition() partition.Partition { return w.part }

// Run receives the initial band and then, for every generation, exchanges
// ghosts, steps the band and gathers the grid on the coordinator. Barriers
// keep every rank on the same generation between phases.
func (w *Worker) Run(ctx context.Context) error {
	band, err := w.scatter(ctx)
	if err != nil {
		return fmt.Errorf("rank %d: scatter: %w", w.part.Rank, err)
	}
	stepper := stencil.NewStepper(band)
	w.log.WithFields(logrus.Fields{
		"rows":       fmt.Sprintf("[%d,%d)", band.StartRow, band.EndRow()),
		"up":         w.part.Up(),
		"down":       w.part.Down(),
		"iterations": w.opts.Iterations,
	}).Info("worker started")

	for gen := 0; gen < w.opts.Iterations; gen++ {
		if err := w.generation(ctx, gen, stepper); err != nil {
			return fmt.Errorf("rank %d: generation %d: %w", w.part.Rank, gen, err)
		}
	}
	w.log.Info("worker finished")
	return nil
}

func (w *Worker) generation(ctx context.Context, gen int, stepper *stencil.Stepper) error {
	log := w.log.WithField("gen", gen)

	ghosts, err := halo.Exchange(ctx, w.comm, w.part, stepper.Band(), w.opts.Strategy)
	if err != nil {
		return fmt.Errorf("ghost exchange: %w", err)
	}
	if err := w.comm.Barrier(ctx); err != nil {
		return err
	}

	if err := stepper.Step(ghosts.Above, ghosts.Below); err != nil {
		return err
	}
	if err := w.comm.Barrier(ctx); err != nil {
		return err
	}

	grid, err := gather.Collect(ctx, w.comm, w.part, stepper.Band())
	if err != nil {
		return fmt.Errorf("gather: %w", err)
	}
	if grid != nil {
		log.WithField("population", grid.Population()).Debug("generation assembled")
		if w.opts.Reporter != nil {
			if err := w.opts.Reporter.Report(ctx, core.Frame{Generation: gen, Grid: grid}); err != nil {
				return fmt.Errorf("report: %w", err)
			}
		}
	}
	return w.comm.Barrier(ctx)
}

// scatter hands every rank its slice of the seed. Only the coordinator reads
// the seed.
func (w *Worker) scatter(ctx context.Context) (*core.Band, error) {
	side, h := w.part.GridSide, w.part.BandHeight()
	if !w.part.IsCoordinator() {
		cells, err := w.comm.Recv(ctx, partition.Coordinator, TagScatter)
		if err != nil {
			return nil, err
		}
		if len(cells) != h*side {
			return nil, transport.Errorf("recv", w.part.Rank, partition.Coordinator, TagScatter,
				"initial band has %d cells, expected %d", len(cells), h*side)
		}
		return core.BandFromCells(w.part.StartRow(), h, side, cells)
	}

	for r := 0; r < w.part.NumWorkers; r++ {
		if r == w.part.Rank {
			continue
		}
		peer, err := w.part.ForRank(r)
		if err != nil {
			return nil, err
		}
		if err := w.comm.Send(ctx, r, TagScatter, w.opts.Seed.Rect(peer.StartRow(), h)); err != nil {
			return nil, err
		}
	}
	return core.BandFromCells(w.part.StartRow(), h, side, w.opts.Seed.Rect(w.part.StartRow(), h))
}
