// Package transport provides the point-to-point and barrier primitives the
// band workers use to talk to each other.
package transport

import (
	"context"
	"errors"
	"fmt"
)

// Tag separates concurrent message flows between the same pair of ranks.
type Tag int

// TagBarrier is reserved for barriers built from point-to-point messages.
const TagBarrier Tag = -1

// Comm is one rank's endpoint in a fixed group of ranks. Messages between a
// (src, dst, tag) triple are delivered exactly once and in order. Every
// blocking call returns when ctx is done.
type Comm interface {
	Rank() int
	Size() int
	Send(ctx context.Context, dst int, tag Tag, cells []uint8) error
	Recv(ctx context.Context, src int, tag Tag) ([]uint8, error)
	Barrier(ctx context.Context) error
	Close() error
}

// ErrClosed is returned by operations on a closed endpoint.
var ErrClosed = errors.New("transport closed")

// Error describes a failed transport operation. It is always fatal to a run.
type Error struct {
	Op   string
	Rank int
	Peer int
	Tag  Tag
	Err  error
}

func (e *Error) Error() string {
	if e.Peer < 0 {
		return fmt.Sprintf("transport: %s on rank %d: %v", e.Op, e.Rank, e.Err)
	}
	return fmt.Sprintf("transport: %s rank %d peer %d tag %d: %v", e.Op, e.Rank, e.Peer, e.Tag, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errorf builds an *Error for op between rank and peer.
func Errorf(op string, rank, peer int, tag Tag, format string, args ...any) *Error {
	return &Error{Op: op, Rank: rank, Peer: peer, Tag: tag, Err: fmt.Errorf(format, args...)}
}

func wrap(op string, rank, peer int, tag Tag, err error) error {
	if err == nil {
		return nil
	}
	var terr *Error
	if errors.As(err, &terr) {
		return err
	}
	return &Error{Op: op, Rank: rank, Peer: peer, Tag: tag, Err: err}
}

func checkPeer(op string, c Comm, peer int, tag Tag) error {
	if peer < 0 || peer >= c.Size() {
		return Errorf(op, c.Rank(), peer, tag, "peer out of range [0,%d)", c.Size())
	}
	return nil
}

// RelayBarrier synchronises every rank of c through rank 0 using
// point-to-point messages on TagBarrier.
func RelayBarrier(ctx context.Context, c Comm) error {
	if c.Size() == 1 {
		return nil
	}
	if c.Rank() != 0 {
		if err := c.Send(ctx, 0, TagBarrier, nil); err != nil {
			return err
		}
		_, err := c.Recv(ctx, 0, TagBarrier)
		return err
	}
	for r := 1; r < c.Size(); r++ {
		if _, err := c.Recv(ctx, r, TagBarrier); err != nil {
			return err
		}
	}
	for r := 1; r < c.Size(); r++ {
		if err := c.Send(ctx, r, TagBarrier, nil); err != nil {
			return err
		}
	}
	return nil
}
