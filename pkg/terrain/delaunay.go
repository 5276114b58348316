package terrain

import (
	"errors"
	"fmt"

	"github.com/Faultbox/terratile/pkg/math"
)

// ErrInvalidTriangulation is returned when fewer than three distinct points are given.
var ErrInvalidTriangulation = errors.New("invalid triangulation input")

// superTriangleScale sets how far the enclosing triangle extends past the points,
// in multiples of the bounding box extent.
const superTriangleScale = 10

type triangle struct {
	a, b, c int
}

type edgeKey struct {
	a, b int
}

// makeEdgeKey creates a canonical key for the undirected edge a-b.
func makeEdgeKey(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// Triangulate builds a Delaunay triangulation of pts with the incremental
// Bowyer-Watson algorithm and returns counter-clockwise index triples.
//
// Each insertion scans every live triangle, so the cost is O(n²). Callers bound n.
func Triangulate(pts []math.Vec2) ([][3]int, error) {
	n := len(pts)
	if n < 3 {
		return nil, fmt.Errorf("%w: %d points", ErrInvalidTriangulation, n)
	}

	minX, maxX := pts[0].X, pts[0].X
	minY, maxY := pts[0].Y, pts[0].Y
	for _, p := range pts[1:] {
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	extent := max(maxX-minX, maxY-minY)
	if extent == 0 {
		return nil, fmt.Errorf("%w: all points coincide", ErrInvalidTriangulation)
	}
	midX, midY := (minX+maxX)/2, (minY+maxY)/2
	d := superTriangleScale * extent

	// Work on a copy with the three super-triangle vertices appended.
	all := make([]math.Vec2, n, n+3)
	copy(all, pts)
	all = append(all,
		math.Vec2{X: midX - d, Y: midY - d},
		math.Vec2{X: midX + d, Y: midY - d},
		math.Vec2{X: midX, Y: midY + d},
	)

	tris := make([]triangle, 1, 2*n+1)
	tris[0] = triangle{n, n + 1, n + 2}

	counts := make(map[edgeKey]int)
	for i := range n {
		p := all[i]

		var bad, keep []triangle
		for _, t := range tris {
			if inCircumcircle(all[t.a], all[t.b], all[t.c], p) {
				bad = append(bad, t)
			} else {
				keep = append(keep, t)
			}
		}

		clear(counts)
		for _, t := range bad {
			counts[makeEdgeKey(t.a, t.b)]++
			counts[makeEdgeKey(t.b, t.c)]++
			counts[makeEdgeKey(t.c, t.a)]++
		}

		// The cavity boundary is every edge owned by exactly one removed triangle.
		for _, t := range bad {
			for _, e := range [3][2]int{{t.a, t.b}, {t.b, t.c}, {t.c, t.a}} {
				if counts[makeEdgeKey(e[0], e[1])] == 1 {
					keep = append(keep, ensureCCW(all, e[0], e[1], i))
				}
			}
		}
		tris = keep
	}

	out := make([][3]int, 0, len(tris))
	for _, t := range tris {
		if t.a >= n || t.b >= n || t.c >= n {
			continue
		}
		out = append(out, [3]int{t.a, t.b, t.c})
	}
	return out, nil
}

// orientation2D is positive when a, b, c turn counter-clockwise.
func orientation2D(a, b, c math.Vec2) float64 {
	return b.Sub(a).Cross(c.Sub(a))
}

// inCircumcircle reports whether p lies strictly inside the circumcircle of a, b, c.
func inCircumcircle(a, b, c, p math.Vec2) bool {
	ax, ay := a.X-p.X, a.Y-p.Y
	bx, by := b.X-p.X, b.Y-p.Y
	cx, cy := c.X-p.X, c.Y-p.Y

	det := (ax*ax+ay*ay)*(bx*cy-cx*by) -
		(bx*bx+by*by)*(ax*cy-cx*ay) +
		(cx*cx+cy*cy)*(ax*by-bx*ay)

	// det > 0 means inside for counter-clockwise triangles.
	if orientation2D(a, b, c) < 0 {
		return det < 0
	}
	return det > 0
}

// ensureCCW orders the triangle counter-clockwise.
func ensureCCW(pts []math.Vec2, a, b, c int) triangle {
	if orientation2D(pts[a], pts[b], pts[c]) < 0 {
		return triangle{a, c, b}
	}
	return triangle{a, b, c}
}
