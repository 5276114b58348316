package pipeline

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/solid"
	"github.com/Faultbox/terratile/pkg/stl"
)

// Tile is one named heightfield in a batch export.
type Tile struct {
	Name  string
	Field *heightfield.Heightfield
}

// Result describes one exported tile.
type Result struct {
	Name      string
	Triangles int
	Bytes     int
	Report    solid.Report
}

// OpenFunc opens the destination for a tile's STL bytes.
type OpenFunc func(name string) (io.WriteCloser, error)

// ExportTiles writes each tile as STL, one after another, waiting
// export.tile_pause between tiles. A failing tile does not stop the batch;
// all failures are returned together. Cancelling ctx stops the batch before
// the next tile starts.
func (e *Engine) ExportTiles(ctx context.Context, tiles []Tile, open OpenFunc) ([]Result, error) {
	var (
		results []Result
		errs    error
	)

	for i, tile := range tiles {
		if i > 0 && e.cfg.Export.TilePause > 0 {
			if err := sleep(ctx, e.cfg.Export.TilePause); err != nil {
				return results, multierr.Append(errs, err)
			}
		}
		if err := ctx.Err(); err != nil {
			return results, multierr.Append(errs, err)
		}

		res, err := e.exportTile(tile, open)
		if err != nil {
			e.log.Error("tile export failed", zap.String("tile", tile.Name), zap.Error(err))
			errs = multierr.Append(errs, fmt.Errorf("tile %s: %w", tile.Name, err))
			continue
		}
		e.log.Info("tile exported",
			zap.String("tile", tile.Name),
			zap.Int("triangles", res.Triangles),
			zap.Int("bytes", res.Bytes),
			zap.Int("progress", i+1),
			zap.Int("total", len(tiles)))
		results = append(results, res)
	}

	return results, errs
}

func (e *Engine) exportTile(tile Tile, open OpenFunc) (res Result, err error) {
	w, err := open(tile.Name)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		err = multierr.Append(err, w.Close())
	}()

	m, err := e.ExportSTL(w, tile.Field)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Name:      tile.Name,
		Triangles: m.TriangleCount(),
		Bytes:     stl.Size(m.TriangleCount()),
		Report:    m.Report,
	}, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
