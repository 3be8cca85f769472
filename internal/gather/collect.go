// Package gather reassembles the full grid on the coordinator after every
// generation and hands it to a Reporter.
package gather

import (
	"context"

	"bandlife/internal/core"
	"bandlife/internal/partition"
	"bandlife/internal/transport"
)

// TagBand carries a finished band to the coordinator.
const TagBand transport.Tag = 3

// Collect sends band to the coordinator, or on the coordinator receives every
// other band and returns the assembled grid. Non-coordinators get a nil grid.
// The coordinator receives from every rank before returning, so a returned
// grid never mixes generations.
func Collect(ctx context.Context, comm transport.Comm, part partition.Partition, band *core.Band) (*core.Grid, error) {
	if !part.IsCoordinator() {
		return nil, comm.Send(ctx, partition.Coordinator, TagBand, band.Cells())
	}

	side, h := part.GridSide, part.BandHeight()
	grid := core.NewGrid(side)
	copy(grid.Cells()[part.StartRow()*side:], band.Cells())
	for r := 0; r < part.NumWorkers; r++ {
		if r == part.Rank {
			continue
		}
		peer, err := part.ForRank(r)
		if err != nil {
			return nil, err
		}
		cells, err := comm.Recv(ctx, r, TagBand)
		if err != nil {
			return nil, err
		}
		if len(cells) != h*side {
			return nil, transport.Errorf("recv", part.Rank, r, TagBand,
				"band has %d cells, expected %d", len(cells), h*side)
		}
		copy(grid.Cells()[peer.StartRow()*side:], cells)
	}
	return grid, nil
}
