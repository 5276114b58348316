// Package solid closes an open terrain surface into a printable solid.
package solid

import (
	"errors"
	"fmt"
	gomath "math"

	"github.com/Faultbox/terratile/pkg/math"
	"github.com/Faultbox/terratile/pkg/terrain"
)

// ErrInvalidSurface is returned for empty meshes, bad indices or a negative base.
var ErrInvalidSurface = errors.New("invalid surface for extrusion")

// Triangle is three vertices in stored (counter-clockwise, outward) order.
type Triangle [3]math.Vec3

// Normal returns the unit facet normal, or zero for a degenerate triangle.
func (t Triangle) Normal() math.Vec3 {
	return math.TriangleNormal(t[0], t[1], t[2])
}

// Mesh is an unindexed triangle soup.
type Mesh struct {
	Triangles []Triangle

	// BaseLevel is the z of the bottom cap.
	BaseLevel float64

	// Report describes how closed the source surface boundary was.
	Report Report
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Triangles)
}

// Triangle returns triangle i.
func (m *Mesh) Triangle(i int) [3]math.Vec3 {
	return m.Triangles[i]
}

// Extrude adds a bottom cap at min(z)-baseThickness and one wall quad per
// boundary edge of the surface.
//
// The result is watertight only when the surface boundary is one simple closed
// loop, as for a full grid mesh. Other surfaces still produce a mesh; check
// Report.Watertight before sending it to a printer.
func Extrude(surface *terrain.SurfaceMesh, baseThickness float64) (*Mesh, error) {
	if surface == nil || len(surface.Indices) == 0 || len(surface.Indices)%3 != 0 {
		return nil, fmt.Errorf("%w: no triangles", ErrInvalidSurface)
	}
	if baseThickness < 0 || gomath.IsNaN(baseThickness) || gomath.IsInf(baseThickness, 0) {
		return nil, fmt.Errorf("%w: base thickness %v", ErrInvalidSurface, baseThickness)
	}
	for _, idx := range surface.Indices {
		if int(idx) >= len(surface.Positions) {
			return nil, fmt.Errorf("%w: index %d out of range", ErrInvalidSurface, idx)
		}
	}

	minZ := gomath.Inf(1)
	for _, p := range surface.Positions {
		minZ = gomath.Min(minZ, p.Z)
	}
	base := minZ - baseThickness

	edges := boundaryEdges(surface)
	n := surface.TriangleCount()
	tris := make([]Triangle, 0, 2*n+2*len(edges.boundary))

	for i := range n {
		tris = append(tris, surface.Triangle(i))
	}

	// Bottom cap: same footprint, reversed winding so it faces down.
	for i := range n {
		t := surface.Triangle(i)
		tris = append(tris, Triangle{t[0].WithZ(base), t[2].WithZ(base), t[1].WithZ(base)})
	}

	// Walls: the surface interior lies left of each directed boundary edge a->b,
	// so this winding faces outward.
	for _, e := range edges.boundary {
		aTop, bTop := e.from, e.to
		aBot, bBot := aTop.WithZ(base), bTop.WithZ(base)
		tris = append(tris,
			Triangle{aTop, aBot, bTop},
			Triangle{bTop, aBot, bBot},
		)
	}

	return &Mesh{
		Triangles: tris,
		BaseLevel: base,
		Report:    edges.report(),
	}, nil
}
