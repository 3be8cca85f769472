package gather

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sync"

	"bandlife/internal/core"
)

// Reporter observes every fully assembled generation on the coordinator.
type Reporter interface {
	Report(ctx context.Context, f core.Frame) error
}

// TextReporter dumps each generation as rows of 0/1 values separated by
// spaces, with a blank line between rows.
type TextReporter struct {
	w io.Writer
}

// NewTextReporter writes to w.
func NewTextReporter(w io.Writer) *TextReporter { return &TextReporter{w: w} }

func (r *TextReporter) Report(_ context.Context, f core.Frame) error {
	bw := bufio.NewWriter(r.w)
	fmt.Fprintf(bw, "Iteration %d: final grid:\n", f.Generation)
	for row := 0; row < f.Grid.Rows(); row++ {
		bw.WriteByte('\n')
		for col, c := range f.Grid.Row(row) {
			if col > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteByte('0' + c)
		}
		bw.WriteByte('\n')
	}
	bw.WriteByte('\n')
	return bw.Flush()
}

// Recorder keeps a copy of every reported frame.
type Recorder struct {
	mu     sync.Mutex
	frames []core.Frame
}

func (r *Recorder) Report(_ context.Context, f core.Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, core.Frame{Generation: f.Generation, Grid: f.Grid.Clone()})
	return nil
}

// Frames returns the recorded frames in report order.
func (r *Recorder) Frames() []core.Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Frame(nil), r.frames...)
}

// ChannelReporter forwards frames to a consumer such as the viewer. Report
// blocks until the frame is taken or ctx is done.
type ChannelReporter struct {
	ch chan<- core.Frame
}

// NewChannelReporter forwards to ch.
func NewChannelReporter(ch chan<- core.Frame) *ChannelReporter { return &ChannelReporter{ch: ch} }

func (r *ChannelReporter) Report(ctx context.Context, f core.Frame) error {
	select {
	case r.ch <- core.Frame{Generation: f.Generation, Grid: f.Grid.Clone()}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
