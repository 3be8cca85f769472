package worker

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"bandlife/internal/partition"
	"bandlife/internal/transport"
)

// CommFactory returns the endpoint of one rank.
type CommFactory func(rank int) (transport.Comm, error)

// RunGroup validates the configuration, then runs every rank in its own
// goroutine. The first failing rank cancels the others and its error is
// returned; no rank keeps computing once the group is aborted.
func RunGroup(ctx context.Context, opts Options, newComm CommFactory) error {
	if err := validate(opts, 0); err != nil {
		return err
	}

	log := opts.logger()
	log.WithFields(logrus.Fields{
		"side":     opts.Side,
		"workers":  opts.Workers,
		"exchange": opts.Strategy.String(),
	}).Info("starting run")

	g, gctx := errgroup.WithContext(ctx)
	for rank := 0; rank < opts.Workers; rank++ {
		g.Go(func() error {
			comm, err := newComm(rank)
			if err != nil {
				return fmt.Errorf("rank %d: %w", rank, err)
			}
			defer comm.Close()
			w, err := New(comm, opts)
			if err != nil {
				return err
			}
			return w.Run(gctx)
		})
	}
	if err := g.Wait(); err != nil {
		log.WithError(err).Error("run aborted")
		return err
	}
	return nil
}

func validate(opts Options, rank int) error {
	if err := partition.Validate(partition.Config{GridSide: opts.Side, NumWorkers: opts.Workers, Rank: rank}); err != nil {
		return err
	}
	if opts.Iterations < 0 {
		return fmt.Errorf("worker: negative iteration count %d", opts.Iterations)
	}
	return nil
}

// RunLocal runs the group over an in-process mesh.
func RunLocal(ctx context.Context, opts Options) error {
	mesh := transport.NewLocal(opts.Workers)
	defer mesh.Close()
	return RunGroup(ctx, opts, func(rank int) (transport.Comm, error) {
		return mesh.Comm(rank), nil
	})
}

// RunRPC runs the group over TCP loopback connections on host.
func RunRPC(ctx context.Context, opts Options, host string) error {
	if err := validate(opts, 0); err != nil {
		return err
	}
	comms, err := transport.NewRPCMesh(opts.Workers, host)
	if err != nil {
		return err
	}
	defer func() {
		for _, c := range comms {
			c.Close()
		}
	}()
	return RunGroup(ctx, opts, func(rank int) (transport.Comm, error) {
		return comms[rank], nil
	})
}

// RunPeer runs one rank of a group whose ranks live in separate processes.
// peers holds the listen address of every rank, indexed by rank; this
// process serves peers[rank]. Only rank 0 reads the seed and reports.
func RunPeer(ctx context.Context, opts Options, rank int, peers []string) error {
	if len(peers) != opts.Workers {
		return fmt.Errorf("worker: %d peer addresses for %d workers", len(peers), opts.Workers)
	}
	if err := validate(opts, rank); err != nil {
		return err
	}
	comm, err := transport.ListenRPC(rank, peers)
	if err != nil {
		return err
	}
	defer comm.Close()

	w, err := New(comm, opts)
	if err != nil {
		return err
	}
	log := opts.logger().WithFields(logrus.Fields{"rank": rank, "addr": comm.Addr()})
	log.Info("peer listening")
	if err := w.Run(ctx); err != nil {
		log.WithError(err).Error("run aborted")
		return err
	}
	return nil
}
