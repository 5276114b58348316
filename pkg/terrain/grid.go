package terrain

import (
	"fmt"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
)

// scaleFactor maps elevation above Min to design units.
func scaleFactor(hf *heightfield.Heightfield, exaggeration float64) float64 {
	return HeightScale / hf.Range() * exaggeration
}

// gridSize returns the output grid dimension for n samples at the given decimation.
// A dimension never drops below 2 so every cell still has four corners.
func gridSize(n, decimation int) int {
	g := (n + decimation - 1) / decimation
	if g < 2 {
		return 2
	}
	return g
}

// BuildGrid triangulates every (decimated) heightfield cell into two triangles.
//
// Columns map onto [-extent/2, extent/2] west to east and rows onto
// [extent/2, -extent/2] north to south, so the triangles (topLeft, bottomLeft,
// topRight) and (topRight, bottomLeft, bottomRight) wind counter-clockwise seen
// from above and normals point up.
func BuildGrid(hf *heightfield.Heightfield, exaggeration, extent float64, decimation int) (*SurfaceMesh, error) {
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	if exaggeration <= 0 || extent <= 0 || decimation < 1 {
		return nil, fmt.Errorf("%w: exaggeration=%v extent=%v decimation=%d",
			ErrInvalidOptions, exaggeration, extent, decimation)
	}

	gw := gridSize(hf.Width, decimation)
	gh := gridSize(hf.Height, decimation)
	scale := scaleFactor(hf, exaggeration)
	half := extent / 2

	positions := make([]math.Vec3, 0, gw*gh)
	for gy := range gh {
		sy := min(gy*decimation, hf.Height-1)
		y := half - float64(gy)/float64(gh-1)*extent
		for gx := range gw {
			sx := min(gx*decimation, hf.Width-1)
			positions = append(positions, math.Vec3{
				X: float64(gx)/float64(gw-1)*extent - half,
				Y: y,
				Z: (hf.At(sx, sy) - hf.Min) * scale,
			})
		}
	}

	indices := make([]uint32, 0, (gw-1)*(gh-1)*6)
	for gy := 0; gy < gh-1; gy++ {
		for gx := 0; gx < gw-1; gx++ {
			topLeft := uint32(gy*gw + gx)
			topRight := topLeft + 1
			bottomLeft := uint32((gy+1)*gw + gx)
			bottomRight := bottomLeft + 1

			indices = append(indices,
				topLeft, bottomLeft, topRight,
				topRight, bottomLeft, bottomRight,
			)
		}
	}

	normals, degenerate := ComputeNormals(positions, indices)

	return &SurfaceMesh{
		Positions:  positions,
		Indices:    indices,
		Normals:    normals,
		GridWidth:  gw,
		GridHeight: gh,
		Degenerate: degenerate,
	}, nil
}
