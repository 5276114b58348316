// Package terrain builds display and print surfaces from heightfields.
package terrain

import (
	"errors"

	"github.com/Faultbox/terratile/pkg/math"
)

// HeightScale is the height in design units of the tallest feature at exaggeration 1.
// The grid builder, the TIN mapper and any inverse mapping must agree on it.
const HeightScale = 3.0

// DefaultExtent is the default horizontal size of a tile in design units.
const DefaultExtent = 10.0

// ErrInvalidOptions is returned for non-positive exaggeration, extent or decimation.
var ErrInvalidOptions = errors.New("invalid mesh options")

// SurfaceMesh is an indexed triangle surface with per-vertex normals.
//
// Grid meshes keep vertices in row-major order (index = row*GridWidth+col) so
// neighbours can be found by offset. GridWidth and GridHeight are zero for TIN meshes.
type SurfaceMesh struct {
	Positions []math.Vec3
	Indices   []uint32
	Normals   []math.Vec3

	GridWidth  int
	GridHeight int

	// Degenerate counts zero-area triangles. They are allowed but contribute
	// nothing to normals.
	Degenerate int
}

// TriangleCount returns the number of triangles.
func (m *SurfaceMesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the positions of triangle i.
func (m *SurfaceMesh) Triangle(i int) [3]math.Vec3 {
	return [3]math.Vec3{
		m.Positions[m.Indices[3*i]],
		m.Positions[m.Indices[3*i+1]],
		m.Positions[m.Indices[3*i+2]],
	}
}

// IsGrid reports whether the mesh has row-major grid layout.
func (m *SurfaceMesh) IsGrid() bool {
	return m.GridWidth > 0 && m.GridHeight > 0 && m.GridWidth*m.GridHeight == len(m.Positions)
}

// Bounds computes the axis-aligned bounding box of the mesh.
func (m *SurfaceMesh) Bounds() Bounds {
	b := emptyBounds()
	for _, p := range m.Positions {
		updateBounds(&b, p)
	}
	return b
}

// Clone returns a deep copy.
func (m *SurfaceMesh) Clone() *SurfaceMesh {
	c := *m
	c.Positions = append([]math.Vec3(nil), m.Positions...)
	c.Indices = append([]uint32(nil), m.Indices...)
	c.Normals = append([]math.Vec3(nil), m.Normals...)
	return &c
}

// Bounds holds the axis-aligned bounding box of a mesh.
type Bounds struct {
	Min math.Vec3
	Max math.Vec3
}

// Size returns Max-Min.
func (b Bounds) Size() math.Vec3 {
	return b.Max.Sub(b.Min)
}
