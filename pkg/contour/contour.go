// Package contour extracts isolines from a heightfield with marching squares.
package contour

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
)

// ErrTooFewLayers is returned when fewer than two layers are requested.
var ErrTooFewLayers = errors.New("contour extraction needs at least 2 layers")

// chainTolerance is the endpoint match distance in grid cells.
const chainTolerance = 1e-9

// Polyline is an ordered run of points in normalized [0,1]x[0,1] coordinates.
type Polyline []math.Vec2

// Closed reports whether the first and last points coincide.
func (p Polyline) Closed() bool {
	return len(p) >= 3 && p[0].Near(p[len(p)-1], chainTolerance)
}

// Layer holds every isoline at one elevation.
type Layer struct {
	Elevation float64
	Polylines []Polyline
}

// Extract returns numLayers-1 layers at min + range*i/numLayers for i = 1..numLayers-1.
// The absolute minimum and maximum are skipped since they give zero-width contours.
func Extract(hf *heightfield.Heightfield, numLayers int) ([]Layer, error) {
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	if numLayers < 2 {
		return nil, fmt.Errorf("%w: got %d", ErrTooFewLayers, numLayers)
	}

	rng := hf.Range()
	layers := make([]Layer, 0, numLayers-1)
	for i := 1; i < numLayers; i++ {
		threshold := hf.Min + rng*float64(i)/float64(numLayers)
		layers = append(layers, Layer{Elevation: threshold, Polylines: isoline(hf, threshold)})
	}
	return layers, nil
}

// IsolineAt returns the polylines for a single threshold, in normalized coordinates.
func IsolineAt(hf *heightfield.Heightfield, threshold float64) ([]Polyline, error) {
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	return isoline(hf, threshold), nil
}

func isoline(hf *heightfield.Heightfield, threshold float64) []Polyline {
	lines := chain(segments(hf, threshold))
	sx := float64(hf.Width - 1)
	sy := float64(hf.Height - 1)
	for _, line := range lines {
		for k := range line {
			line[k] = math.Vec2{X: line[k].X / sx, Y: line[k].Y / sy}
		}
	}
	return lines
}
