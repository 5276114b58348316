package terrain

import (
	"fmt"

	"github.com/Faultbox/terratile/pkg/heightfield"
)

// Meshing strategies.
const (
	StrategyGrid = "grid"
	StrategyTIN  = "tin"
)

// Options configures a Mesher.
type Options struct {
	Exaggeration float64
	Extent       float64

	// Grid only.
	Decimation int

	// TIN only.
	MaxErrorFraction float64
	MaxPoints        int
}

// DefaultOptions returns the stock meshing options.
func DefaultOptions() Options {
	return Options{
		Exaggeration:     1.5,
		Extent:           DefaultExtent,
		Decimation:       1,
		MaxErrorFraction: DefaultTINMaxError,
		MaxPoints:        DefaultTINMaxPoints,
	}
}

// Mesher turns a heightfield into a surface mesh.
type Mesher interface {
	Mesh(hf *heightfield.Heightfield, opts Options) (*SurfaceMesh, error)
}

// GridMesher triangulates every heightfield cell.
type GridMesher struct{}

// Mesh implements Mesher.
func (GridMesher) Mesh(hf *heightfield.Heightfield, opts Options) (*SurfaceMesh, error) {
	return BuildGrid(hf, opts.Exaggeration, opts.Extent, opts.Decimation)
}

// TINMesher triangulates an adaptively selected point subset.
type TINMesher struct{}

// Mesh implements Mesher.
func (TINMesher) Mesh(hf *heightfield.Heightfield, opts Options) (*SurfaceMesh, error) {
	tin, err := BuildTIN(hf, opts.MaxErrorFraction, opts.MaxPoints)
	if err != nil {
		return nil, err
	}
	return tin.ToSurfaceMesh(hf, opts.Exaggeration, opts.Extent)
}

// NewMesher returns the Mesher for a strategy name.
func NewMesher(strategy string) (Mesher, error) {
	switch strategy {
	case StrategyGrid, "":
		return GridMesher{}, nil
	case StrategyTIN:
		return TINMesher{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown strategy %q", ErrInvalidOptions, strategy)
	}
}
