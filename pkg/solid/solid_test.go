package solid

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
	"github.com/Faultbox/terratile/pkg/terrain"
)

func gridSurface(t *testing.T, w, h int, f func(x, y int) float64) *terrain.SurfaceMesh {
	t.Helper()
	samples := make([]float64, w*h)
	for y := range h {
		for x := range w {
			samples[y*w+x] = f(x, y)
		}
	}
	hf, err := heightfield.New(samples, w, h)
	if err != nil {
		t.Fatalf("heightfield.New failed: %v", err)
	}
	m, err := terrain.BuildGrid(hf, 1.5, 10, 1)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	return m
}

func hills(x, y int) float64 {
	return gomath.Sin(float64(x)*0.9)*30 + float64(y*y)
}

func TestExtrude_FlatTwoByTwo(t *testing.T) {
	surface := gridSurface(t, 2, 2, func(int, int) float64 { return 0 })
	solid, err := Extrude(surface, 5)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	// 2 top + 2 bottom + 4 boundary edges * 2
	if solid.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", solid.TriangleCount())
	}
	if solid.BaseLevel != -5 {
		t.Errorf("expected base level -5, got %v", solid.BaseLevel)
	}
	if !solid.Report.Watertight {
		t.Errorf("expected watertight report, got %+v", solid.Report)
	}
}

func TestExtrude_TriangleCounts(t *testing.T) {
	surface := gridSurface(t, 6, 4, hills)
	solid, err := Extrude(surface, 2)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	top := 2 * 5 * 3
	perimeter := 2*5 + 2*3
	if want := 2*top + 2*perimeter; solid.TriangleCount() != want {
		t.Errorf("expected %d triangles, got %d", want, solid.TriangleCount())
	}
	if solid.Report.BoundaryEdges != perimeter || solid.Report.BoundaryLoops != 1 {
		t.Errorf("unexpected report %+v", solid.Report)
	}
}

func TestExtrude_Watertight(t *testing.T) {
	surface := gridSurface(t, 7, 5, hills)
	solid, err := Extrude(surface, 3)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}
	if open := OpenEdges(solid); open != 0 {
		t.Errorf("expected closed solid, found %d open edges", open)
	}
}

func TestExtrude_OutwardNormals(t *testing.T) {
	surface := gridSurface(t, 5, 5, hills)
	solid, err := Extrude(surface, 1)
	if err != nil {
		t.Fatalf("Extrude failed: %v", err)
	}

	// Divergence theorem: for a closed, outward-facing mesh the signed volume is positive.
	var volume float64
	for _, tri := range solid.Triangles {
		volume += tri[0].Dot(tri[1].Cross(tri[2])) / 6
	}
	if volume <= 0 {
		t.Errorf("signed volume %v should be positive", volume)
	}

	n := surface.TriangleCount()
	for i := n; i < 2*n; i++ {
		if nz := solid.Triangles[i].Normal().Z; nz >= 0 {
			t.Errorf("bottom triangle %d faces up (%v)", i, nz)
		}
	}
	for i := 2 * n; i < len(solid.Triangles); i++ {
		if nz := solid.Triangles[i].Normal().Z; gomath.Abs(nz) > 1e-12 {
			t.Errorf("wall triangle %d is not vertical (%v)", i, nz)
		}
	}
}

func TestExtrude_TopUnchanged(t *testing.T) {
	surface := gridSurface(t, 4, 3, hills)
	solid, _ := Extrude(surface, 2)
	for i := range surface.TriangleCount() {
		if Triangle(surface.Triangle(i)) != solid.Triangles[i] {
			t.Fatalf("top triangle %d changed", i)
		}
	}
}

func TestExtrude_HoleIsReported(t *testing.T) {
	surface := gridSurface(t, 5, 5, hills)

	// Drop the two triangles of the centre cell to punch a hole.
	cell := (1*4 + 1) * 6
	holed := surface.Clone()
	holed.Indices = append(holed.Indices[:cell:cell], surface.Indices[cell+6:]...)

	solid, err := Extrude(holed, 1)
	if err != nil {
		t.Fatalf("Extrude should still succeed: %v", err)
	}
	if solid.Report.Watertight {
		t.Error("surface with a hole should not be reported watertight")
	}
	if solid.Report.BoundaryLoops != 2 {
		t.Errorf("expected 2 boundary loops, got %d", solid.Report.BoundaryLoops)
	}
}

func TestExtrude_Invalid(t *testing.T) {
	surface := gridSurface(t, 3, 3, hills)
	if _, err := Extrude(surface, -1); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("expected ErrInvalidSurface for negative base, got %v", err)
	}
	if _, err := Extrude(&terrain.SurfaceMesh{}, 1); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("expected ErrInvalidSurface for empty mesh, got %v", err)
	}
	bad := surface.Clone()
	bad.Indices[0] = 999
	if _, err := Extrude(bad, 1); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("expected ErrInvalidSurface for bad index, got %v", err)
	}
}

func TestAnalyze_NonManifold(t *testing.T) {
	// Three triangles fanning off one shared edge.
	m := &terrain.SurfaceMesh{
		Positions: []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: -1, Z: 0}, {X: 0, Y: 0, Z: 1}},
		Indices:   []uint32{0, 1, 2, 1, 0, 3, 0, 1, 4},
	}
	r := Analyze(m)
	if r.NonManifoldEdges != 1 {
		t.Errorf("expected 1 non-manifold edge, got %d", r.NonManifoldEdges)
	}
	if r.Watertight {
		t.Error("non-manifold surface should not be watertight")
	}
}

func TestScaleForPrinting(t *testing.T) {
	surface := gridSurface(t, 5, 5, hills)
	solid, _ := Extrude(surface, 2)

	scaled, err := ScaleForPrinting(solid, 150)
	if err != nil {
		t.Fatalf("ScaleForPrinting failed: %v", err)
	}

	inf := gomath.Inf(1)
	lo := math.Vec3{X: inf, Y: inf, Z: inf}
	hi := math.Vec3{X: -inf, Y: -inf, Z: -inf}
	for _, tri := range scaled.Triangles {
		for _, p := range tri {
			lo = math.Vec3{X: gomath.Min(lo.X, p.X), Y: gomath.Min(lo.Y, p.Y), Z: gomath.Min(lo.Z, p.Z)}
			hi = math.Vec3{X: gomath.Max(hi.X, p.X), Y: gomath.Max(hi.Y, p.Y), Z: gomath.Max(hi.Z, p.Z)}
		}
	}
	if gomath.Abs(hi.X-lo.X-150) > 1e-9 || gomath.Abs(hi.Y-lo.Y-150) > 1e-9 {
		t.Errorf("footprint %v x %v, want 150 x 150", hi.X-lo.X, hi.Y-lo.Y)
	}
	if gomath.Abs(lo.X+75) > 1e-9 || gomath.Abs(lo.Y+75) > 1e-9 {
		t.Errorf("footprint not centred: min (%v, %v)", lo.X, lo.Y)
	}
	if lo.Z != 0 {
		t.Errorf("lowest point z = %v, want 0", lo.Z)
	}
	// Everything scales by 150/10, so the 2 unit base becomes 30 mm.
	wantHeight := (surface.Bounds().Max.Z - solid.BaseLevel) * 15
	if gomath.Abs(hi.Z-wantHeight) > 1e-9 {
		t.Errorf("scaled height %v, want %v", hi.Z, wantHeight)
	}

	if _, err := ScaleForPrinting(solid, 0); !errors.Is(err, ErrInvalidSurface) {
		t.Errorf("expected ErrInvalidSurface for zero tile size, got %v", err)
	}
}
