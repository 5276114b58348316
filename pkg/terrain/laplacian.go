package terrain

import (
	"fmt"
)

// MaxLaplacianPasses is the largest accepted number of relaxation passes.
const MaxLaplacianPasses = 3

// Laplacian relaxes the heights of interior grid vertices toward the mean of
// their four neighbours: z += lambda*(mean-z). Each pass reads only the previous
// pass's heights. Boundary rows and columns are never touched, which keeps tile
// edges abutting and the extruded walls aligned. Normals are recomputed.
func Laplacian(m *SurfaceMesh, passes int, lambda float64) (*SurfaceMesh, error) {
	if !m.IsGrid() {
		return nil, fmt.Errorf("%w: laplacian smoothing needs a grid mesh", ErrInvalidOptions)
	}
	if passes < 0 || passes > MaxLaplacianPasses {
		return nil, fmt.Errorf("%w: laplacian passes %d not in [0, %d]", ErrInvalidOptions, passes, MaxLaplacianPasses)
	}
	if !(lambda > 0 && lambda <= 1) {
		return nil, fmt.Errorf("%w: lambda %v not in (0, 1]", ErrInvalidOptions, lambda)
	}

	out := m.Clone()
	if passes == 0 {
		return out, nil
	}

	gw, gh := m.GridWidth, m.GridHeight
	cur := make([]float64, len(m.Positions))
	for i, p := range m.Positions {
		cur[i] = p.Z
	}
	next := append([]float64(nil), cur...)

	for range passes {
		for row := 1; row < gh-1; row++ {
			for col := 1; col < gw-1; col++ {
				i := row*gw + col
				mean := (cur[i-1] + cur[i+1] + cur[i-gw] + cur[i+gw]) / 4
				next[i] = cur[i] + lambda*(mean-cur[i])
			}
		}
		cur, next = next, cur
	}

	for i := range out.Positions {
		out.Positions[i].Z = cur[i]
	}
	out.Normals, out.Degenerate = ComputeNormals(out.Positions, out.Indices)
	return out, nil
}
