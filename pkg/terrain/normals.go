package terrain

import (
	gomath "math"

	"github.com/Faultbox/terratile/pkg/math"
)

// ComputeNormals returns per-vertex normals for an indexed triangle list.
//
// Each vertex accumulates the raw cross product (v1-v0)×(v2-v0) of every incident
// triangle, so larger faces weigh more, and the sum is normalized. A vertex with
// no area around it keeps a zero normal. degenerate counts zero-area triangles.
func ComputeNormals(positions []math.Vec3, indices []uint32) (normals []math.Vec3, degenerate int) {
	normals = make([]math.Vec3, len(positions))

	for i := 0; i+2 < len(indices); i += 3 {
		i0, i1, i2 := indices[i], indices[i+1], indices[i+2]
		p0 := positions[i0]
		n := positions[i1].Sub(p0).Cross(positions[i2].Sub(p0))
		if n == (math.Vec3{}) {
			degenerate++
			continue
		}
		normals[i0] = normals[i0].Add(n)
		normals[i1] = normals[i1].Add(n)
		normals[i2] = normals[i2].Add(n)
	}

	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
	return normals, degenerate
}

// Helper functions

func emptyBounds() Bounds {
	inf := gomath.Inf(1)
	return Bounds{
		Min: math.Vec3{X: inf, Y: inf, Z: inf},
		Max: math.Vec3{X: -inf, Y: -inf, Z: -inf},
	}
}

func updateBounds(b *Bounds, p math.Vec3) {
	b.Min.X = gomath.Min(b.Min.X, p.X)
	b.Min.Y = gomath.Min(b.Min.Y, p.Y)
	b.Min.Z = gomath.Min(b.Min.Z, p.Z)
	b.Max.X = gomath.Max(b.Max.X, p.X)
	b.Max.Y = gomath.Max(b.Max.Y, p.Y)
	b.Max.Z = gomath.Max(b.Max.Z, p.Z)
}
