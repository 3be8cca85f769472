package transport

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
)

type link struct {
	src, dst int
	tag      Tag
}

// Mesh connects n in-process ranks with unbuffered channels. A Send only
// completes once the matching Recv has taken the message, the same blocking
// semantics as a synchronous send on a message-passing fabric.
type Mesh struct {
	n       int
	mu      sync.Mutex
	links   map[link]chan []uint8
	barrier *cyclicBarrier
	done    chan struct{}
	once    sync.Once
}

// NewLocal builds a mesh for n ranks.
func NewLocal(n int) *Mesh {
	return &Mesh{
		n:       n,
		links:   make(map[link]chan []uint8),
		barrier: newCyclicBarrier(n),
		done:    make(chan struct{}),
	}
}

// Comm returns the endpoint of rank.
func (m *Mesh) Comm(rank int) Comm { return &localComm{mesh: m, rank: rank} }

// Close fails every pending and future operation on the mesh.
func (m *Mesh) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Mesh) link(src, dst int, tag Tag) chan []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := link{src: src, dst: dst, tag: tag}
	ch, ok := m.links[k]
	if !ok {
		ch = make(chan []uint8)
		m.links[k] = ch
	}
	return ch
}

type localComm struct {
	mesh   *Mesh
	rank   int
	closed atomic.Bool
}

func (c *localComm) Rank() int { return c.rank }
func (c *localComm) Size() int { return c.mesh.n }

func (c *localComm) Send(ctx context.Context, dst int, tag Tag, cells []uint8) error {
	if err := c.check("send", dst, tag); err != nil {
		return err
	}
	ch := c.mesh.link(c.rank, dst, tag)
	select {
	case ch <- slices.Clone(cells):
		return nil
	case <-ctx.Done():
		return wrap("send", c.rank, dst, tag, ctx.Err())
	case <-c.mesh.done:
		return wrap("send", c.rank, dst, tag, ErrClosed)
	}
}

func (c *localComm) Recv(ctx context.Context, src int, tag Tag) ([]uint8, error) {
	if err := c.check("recv", src, tag); err != nil {
		return nil, err
	}
	ch := c.mesh.link(src, c.rank, tag)
	select {
	case cells := <-ch:
		return cells, nil
	case <-ctx.Done():
		return nil, wrap("recv", c.rank, src, tag, ctx.Err())
	case <-c.mesh.done:
		return nil, wrap("recv", c.rank, src, tag, ErrClosed)
	}
}

func (c *localComm) Barrier(ctx context.Context) error {
	if c.closed.Load() {
		return wrap("barrier", c.rank, -1, TagBarrier, ErrClosed)
	}
	return wrap("barrier", c.rank, -1, TagBarrier, c.mesh.barrier.wait(ctx, c.mesh.done))
}

func (c *localComm) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *localComm) check(op string, peer int, tag Tag) error {
	if c.closed.Load() {
		return wrap(op, c.rank, peer, tag, ErrClosed)
	}
	return checkPeer(op, c, peer, tag)
}

// cyclicBarrier releases its waiters each time n of them have arrived.
type cyclicBarrier struct {
	mu      sync.Mutex
	n       int
	waiting int
	release chan struct{}
}

func newCyclicBarrier(n int) *cyclicBarrier {
	return &cyclicBarrier{n: n, release: make(chan struct{})}
}

func (b *cyclicBarrier) wait(ctx context.Context, done <-chan struct{}) error {
	b.mu.Lock()
	release := b.release
	b.waiting++
	if b.waiting == b.n {
		b.waiting = 0
		b.release = make(chan struct{})
		close(release)
		b.mu.Unlock()
		return nil
	}
	b.mu.Unlock()
	select {
	case <-release:
		return nil
	case <-ctx.Done():
		return b.leave(release, ctx.Err())
	case <-done:
		return b.leave(release, ErrClosed)
	}
}

// leave withdraws an aborted waiter from the round it joined. A round that
// tripped meanwhile counts as passed.
func (b *cyclicBarrier) leave(release chan struct{}, err error) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.release != release {
		return nil
	}
	b.waiting--
	return err
}
