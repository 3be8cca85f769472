// Package halo exchanges the ghost rows that border each band with the two
// ring neighbours that own them.
package halo

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"bandlife/internal/core"
	"bandlife/internal/partition"
	"bandlife/internal/transport"
)

const (
	// TagTopRow carries a band's top row to its Down neighbour, where it
	// becomes the ghost below that band.
	TagTopRow transport.Tag = 1
	// TagBottomRow carries a band's bottom row to its Up neighbour, where it
	// becomes the ghost above that band.
	TagBottomRow transport.Tag = 2
)

// Strategy selects how sends and receives are ordered.
type Strategy int

const (
	// Parity orders each flow by rank parity: even ranks send then
	// receive, odd ranks receive then send.
	Parity Strategy = iota
	// Async posts both sends and both receives at once and waits for all
	// four to finish.
	Async
)

func (s Strategy) String() string {
	switch s {
	case Parity:
		return "parity"
	case Async:
		return "async"
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// ParseStrategy maps a flag value to a Strategy.
func ParseStrategy(v string) (Strategy, error) {
	switch strings.ToLower(v) {
	case "", "parity":
		return Parity, nil
	case "async":
		return Async, nil
	}
	return Parity, fmt.Errorf("unknown exchange strategy %q (want parity or async)", v)
}

// Ghosts are read-only copies of the rows just outside a band.
type Ghosts struct {
	Above []uint8
	Below []uint8
}

// flow is one direction of the exchange: this rank's row goes to one
// neighbour and the matching ghost comes back from the other.
type flow struct {
	tag      transport.Tag
	sendTo   int
	row      []uint8
	recvFrom int
	ghost    *[]uint8
}

// Exchange sends the band's boundary rows to its ring neighbours and
// returns the ghost rows received from them. Any transport failure or
// malformed row is returned as a *transport.Error.
func Exchange(ctx context.Context, comm transport.Comm, part partition.Partition, band *core.Band, strategy Strategy) (Ghosts, error) {
	if part.NumWorkers == 1 {
		return Ghosts{Above: slices.Clone(band.Bottom()), Below: slices.Clone(band.Top())}, nil
	}

	var g Ghosts
	flows := [2]flow{
		{tag: TagTopRow, sendTo: part.Down(), row: band.Top(), recvFrom: part.Up(), ghost: &g.Below},
		{tag: TagBottomRow, sendTo: part.Up(), row: band.Bottom(), recvFrom: part.Down(), ghost: &g.Above},
	}

	var err error
	switch strategy {
	case Async:
		err = exchangeAsync(ctx, comm, band.Width, flows)
	default:
		err = exchangeParity(ctx, comm, part.Rank%2 == 0, band.Width, flows)
	}
	if err != nil {
		return Ghosts{}, err
	}
	return g, nil
}

// exchangeParity runs the two flows one after the other. Within a flow a
// send-first rank and its receive-first neighbour meet immediately, and any
// ring holding both kinds of rank has no cyclic wait.
func exchangeParity(ctx context.Context, comm transport.Comm, sendFirst bool, width int, flows [2]flow) error {
	for _, f := range flows {
		if sendFirst {
			if err := comm.Send(ctx, f.sendTo, f.tag, f.row); err != nil {
				return err
			}
			if err := receive(ctx, comm, width, f); err != nil {
				return err
			}
			continue
		}
		if err := receive(ctx, comm, width, f); err != nil {
			return err
		}
		if err := comm.Send(ctx, f.sendTo, f.tag, f.row); err != nil {
			return err
		}
	}
	return nil
}

func exchangeAsync(ctx context.Context, comm transport.Comm, width int, flows [2]flow) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, f := range flows {
		g.Go(func() error { return comm.Send(gctx, f.sendTo, f.tag, f.row) })
		g.Go(func() error { return receive(gctx, comm, width, f) })
	}
	return g.Wait()
}

func receive(ctx context.Context, comm transport.Comm, width int, f flow) error {
	row, err := comm.Recv(ctx, f.recvFrom, f.tag)
	if err != nil {
		return err
	}
	if len(row) != width {
		return transport.Errorf("recv", comm.Rank(), f.recvFrom, f.tag,
			"ghost row has %d cells, expected %d", len(row), width)
	}
	*f.ghost = row
	return nil
}
