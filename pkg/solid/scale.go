package solid

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/terratile/pkg/math"
)

// ScaleForPrinting uniformly scales m so its XY footprint spans tileSizeMm,
// centres it on the XY origin and rests its lowest point on z=0.
// For a grid tile the factor equals tileSizeMm/meshExtent.
func ScaleForPrinting(m *Mesh, tileSizeMm float64) (*Mesh, error) {
	if !(tileSizeMm > 0) || gomath.IsInf(tileSizeMm, 0) {
		return nil, fmt.Errorf("%w: tile size %v mm", ErrInvalidSurface, tileSizeMm)
	}
	if len(m.Triangles) == 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrInvalidSurface)
	}

	inf := gomath.Inf(1)
	lo := math.Vec3{X: inf, Y: inf, Z: inf}
	hi := math.Vec3{X: -inf, Y: -inf, Z: -inf}
	for _, t := range m.Triangles {
		for _, p := range t {
			lo = math.Vec3{X: gomath.Min(lo.X, p.X), Y: gomath.Min(lo.Y, p.Y), Z: gomath.Min(lo.Z, p.Z)}
			hi = math.Vec3{X: gomath.Max(hi.X, p.X), Y: gomath.Max(hi.Y, p.Y), Z: gomath.Max(hi.Z, p.Z)}
		}
	}

	footprint := gomath.Max(hi.X, hi.Y) - gomath.Min(lo.X, lo.Y)
	if footprint <= 0 {
		return nil, fmt.Errorf("%w: zero footprint", ErrInvalidSurface)
	}
	s := tileSizeMm / footprint
	offset := math.Vec3{X: (lo.X + hi.X) / 2, Y: (lo.Y + hi.Y) / 2, Z: lo.Z}

	out := &Mesh{
		Triangles: make([]Triangle, len(m.Triangles)),
		BaseLevel: 0,
		Report:    m.Report,
	}
	for i, t := range m.Triangles {
		for k, p := range t {
			out.Triangles[i][k] = p.Sub(offset).Scale(s)
		}
	}
	return out, nil
}
