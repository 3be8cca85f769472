package transport

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/rpc"
	"slices"
	"sync"
	"time"
)

// Envelope is the wire form of one message.
type Envelope struct {
	Src   int
	Tag   Tag
	Cells []uint8
}

// mailboxDepth bounds the messages queued per (src, tag). Lock-step runs
// never have more than a couple in flight.
const mailboxDepth = 16

const dialBackoff = 20 * time.Millisecond

// Mailbox is the RPC service every rank exposes. Delivered messages wait in
// per-(src, tag) queues until the rank receives them.
type Mailbox struct {
	mu     sync.Mutex
	queues map[link]chan []uint8
	rank   int
}

func newMailbox(rank int) *Mailbox {
	return &Mailbox{rank: rank, queues: make(map[link]chan []uint8)}
}

func (m *Mailbox) queue(src int, tag Tag) chan []uint8 {
	m.mu.Lock()
	defer m.mu.Unlock()
	k := link{src: src, dst: m.rank, tag: tag}
	q, ok := m.queues[k]
	if !ok {
		q = make(chan []uint8, mailboxDepth)
		m.queues[k] = q
	}
	return q
}

// Deliver enqueues an envelope for the local rank.
func (m *Mailbox) Deliver(env Envelope, ack *bool) error {
	m.queue(env.Src, env.Tag) <- env.Cells
	*ack = true
	return nil
}

// RPCComm is a rank endpoint that exchanges messages over TCP with net/rpc.
type RPCComm struct {
	rank  int
	addrs []string
	ln    net.Listener
	box   *Mailbox

	mu      sync.Mutex
	clients map[int]*rpc.Client
	closed  bool
	done    chan struct{}
}

// ListenRPC serves rank's mailbox on addrs[rank]. Peers are dialled lazily
// on first send, so ranks may start in any order.
func ListenRPC(rank int, addrs []string) (*RPCComm, error) {
	if rank < 0 || rank >= len(addrs) {
		return nil, fmt.Errorf("transport: rank %d outside %d addresses", rank, len(addrs))
	}
	ln, err := net.Listen("tcp", addrs[rank])
	if err != nil {
		return nil, fmt.Errorf("transport: listen rank %d: %w", rank, err)
	}
	c, err := serve(rank, ln)
	if err != nil {
		return nil, err
	}
	c.addrs = slices.Clone(addrs)
	return c, nil
}

// NewRPCMesh listens for n ranks on ephemeral ports of host and returns the
// connected endpoints, indexed by rank.
func NewRPCMesh(n int, host string) ([]*RPCComm, error) {
	comms := make([]*RPCComm, 0, n)
	addrs := make([]string, 0, n)
	for r := 0; r < n; r++ {
		ln, err := net.Listen("tcp", net.JoinHostPort(host, "0"))
		if err == nil {
			var c *RPCComm
			if c, err = serve(r, ln); err == nil {
				comms = append(comms, c)
				addrs = append(addrs, ln.Addr().String())
				continue
			}
		}
		for _, c := range comms {
			c.Close()
		}
		return nil, fmt.Errorf("transport: listen rank %d: %w", r, err)
	}
	for _, c := range comms {
		c.addrs = addrs
	}
	return comms, nil
}

func serve(rank int, ln net.Listener) (*RPCComm, error) {
	box := newMailbox(rank)
	srv := rpc.NewServer()
	if err := srv.Register(box); err != nil {
		ln.Close()
		return nil, err
	}
	go srv.Accept(ln)
	return &RPCComm{rank: rank, ln: ln, box: box, clients: make(map[int]*rpc.Client), done: make(chan struct{})}, nil
}

// Addr is the address this rank listens on.
func (c *RPCComm) Addr() string { return c.ln.Addr().String() }

func (c *RPCComm) Rank() int { return c.rank }
func (c *RPCComm) Size() int { return len(c.addrs) }

func (c *RPCComm) Send(ctx context.Context, dst int, tag Tag, cells []uint8) error {
	if err := checkPeer("send", c, dst, tag); err != nil {
		return err
	}
	if c.isClosed() {
		return wrap("send", c.rank, dst, tag, ErrClosed)
	}
	if dst == c.rank {
		select {
		case c.box.queue(c.rank, tag) <- slices.Clone(cells):
			return nil
		case <-ctx.Done():
			return wrap("send", c.rank, dst, tag, ctx.Err())
		case <-c.done:
			return wrap("send", c.rank, dst, tag, ErrClosed)
		}
	}
	cl, err := c.client(ctx, dst)
	if err != nil {
		return wrap("dial", c.rank, dst, tag, err)
	}
	var ack bool
	call := cl.Go("Mailbox.Deliver", Envelope{Src: c.rank, Tag: tag, Cells: cells}, &ack, make(chan *rpc.Call, 1))
	select {
	case <-call.Done:
		return wrap("send", c.rank, dst, tag, call.Error)
	case <-ctx.Done():
		return wrap("send", c.rank, dst, tag, ctx.Err())
	}
}

func (c *RPCComm) Recv(ctx context.Context, src int, tag Tag) ([]uint8, error) {
	if err := checkPeer("recv", c, src, tag); err != nil {
		return nil, err
	}
	if c.isClosed() {
		return nil, wrap("recv", c.rank, src, tag, ErrClosed)
	}
	select {
	case cells := <-c.box.queue(src, tag):
		return cells, nil
	case <-ctx.Done():
		return nil, wrap("recv", c.rank, src, tag, ctx.Err())
	case <-c.done:
		return nil, wrap("recv", c.rank, src, tag, ErrClosed)
	}
}

func (c *RPCComm) isClosed() bool {
	select {
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *RPCComm) Barrier(ctx context.Context) error {
	return RelayBarrier(ctx, c)
}

// Close stops serving, drops every peer connection and fails pending
// receives with ErrClosed.
func (c *RPCComm) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	errs := []error{c.ln.Close()}
	for _, cl := range c.clients {
		errs = append(errs, cl.Close())
	}
	c.clients = nil
	return errors.Join(errs...)
}

func (c *RPCComm) client(ctx context.Context, peer int) (*rpc.Client, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if cl, ok := c.clients[peer]; ok {
		c.mu.Unlock()
		return cl, nil
	}
	c.mu.Unlock()

	var d net.Dialer
	for {
		conn, err := d.DialContext(ctx, "tcp", c.addrs[peer])
		if err == nil {
			return c.store(peer, rpc.NewClient(conn))
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w (last dial error: %v)", ctx.Err(), err)
		case <-time.After(dialBackoff):
		}
	}
}

func (c *RPCComm) store(peer int, cl *rpc.Client) (*rpc.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		cl.Close()
		return nil, ErrClosed
	}
	if existing, ok := c.clients[peer]; ok {
		cl.Close()
		return existing, nil
	}
	c.clients[peer] = cl
	return cl, nil
}
