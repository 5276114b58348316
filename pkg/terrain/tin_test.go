package terrain

import (
	gomath "math"
	"testing"

	"github.com/Faultbox/terratile/pkg/math"
)

func hasPoint(tin *TIN, x, y int) bool {
	for _, p := range tin.Points {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

func TestBuildTIN_AlwaysIncludesCorners(t *testing.T) {
	hf := mockField(t, 13, 9, bumpy)
	for _, maxPoints := range []int{0, 1, 4, 10, 1000} {
		tin, err := BuildTIN(hf, 0.01, maxPoints)
		if err != nil {
			t.Fatalf("maxPoints=%d: BuildTIN failed: %v", maxPoints, err)
		}
		for _, c := range [][2]int{{0, 0}, {12, 0}, {0, 8}, {12, 8}} {
			if !hasPoint(tin, c[0], c[1]) {
				t.Errorf("maxPoints=%d: missing corner %v", maxPoints, c)
			}
		}
		for _, idx := range tin.Indices {
			if int(idx) >= len(tin.Points) {
				t.Fatalf("maxPoints=%d: index %d out of range", maxPoints, idx)
			}
		}
	}
}

func TestBuildTIN_BorderStripe(t *testing.T) {
	hf := mockField(t, 45, 30, bumpy)
	tin, err := BuildTIN(hf, 0.01, 0)
	if err != nil {
		t.Fatalf("BuildTIN failed: %v", err)
	}
	// step = floor(45/20) = 2
	for x := 0; x < 45; x += 2 {
		if !hasPoint(tin, x, 0) || !hasPoint(tin, x, 29) {
			t.Errorf("missing border sample at column %d", x)
		}
	}
	for _, p := range tin.Points {
		if p.X > 0 && p.X < 44 && p.Y > 0 && p.Y < 29 {
			t.Fatalf("interior point %v selected with no budget", p)
		}
	}
}

func TestBuildTIN_RespectsBudget(t *testing.T) {
	hf := mockField(t, 30, 30, bumpy)
	tin, err := BuildTIN(hf, 0.01, 200)
	if err != nil {
		t.Fatalf("BuildTIN failed: %v", err)
	}
	if len(tin.Points) != 200 {
		t.Errorf("expected budget of 200 points to be filled, got %d", len(tin.Points))
	}
	if tin.TriangleCount() == 0 {
		t.Error("expected triangles")
	}
}

func TestBuildTIN_PrefersFeatures(t *testing.T) {
	// Flat field with a single peak: the peak must be selected first.
	hf := mockField(t, 21, 21, func(x, y int) float64 {
		if x == 13 && y == 7 {
			return 50
		}
		return 0
	})
	// A 21x21 grid has an 80 sample border at step 1.
	tin, err := BuildTIN(hf, 0.01, 81)
	if err != nil {
		t.Fatalf("BuildTIN failed: %v", err)
	}
	if !hasPoint(tin, 13, 7) {
		t.Error("expected the peak to be selected")
	}
}

func TestBuildTIN_FullGridCoverage(t *testing.T) {
	// A flat field scores nothing, so the fallback grid supplies every interior point.
	hf := mockField(t, 5, 5, func(int, int) float64 { return 3 })
	tin, err := BuildTIN(hf, 0.01, 100)
	if err != nil {
		t.Fatalf("BuildTIN failed: %v", err)
	}
	if len(tin.Points) != 25 {
		t.Fatalf("expected all 25 points, got %d", len(tin.Points))
	}

	var area float64
	pts := tinPoints(tin)
	for i := range tin.TriangleCount() {
		a := pts[tin.Indices[3*i]]
		b := pts[tin.Indices[3*i+1]]
		c := pts[tin.Indices[3*i+2]]
		o := orientation2D(a, b, c)
		if o <= 0 {
			t.Errorf("triangle %d is not counter-clockwise (%v)", i, o)
		}
		area += o / 2
	}
	if gomath.Abs(area-16) > 1e-9 {
		t.Errorf("triangulation covers area %v, want 16", area)
	}
}

func tinPoints(tin *TIN) []math.Vec2 {
	pts := make([]math.Vec2, len(tin.Points))
	for i, p := range tin.Points {
		pts[i] = math.Vec2{X: float64(p.X), Y: -float64(p.Y)}
	}
	return pts
}

func TestTriangulate_EmptyCircumcircle(t *testing.T) {
	pts := []math.Vec2{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 0, Y: 10}, {X: 10, Y: 10},
		{X: 3, Y: 4}, {X: 7, Y: 2}, {X: 5, Y: 8}, {X: 2, Y: 7}, {X: 8, Y: 6}, {X: 4.5, Y: 5.5},
	}
	tris, err := Triangulate(pts)
	if err != nil {
		t.Fatalf("Triangulate failed: %v", err)
	}
	// n points with h on the hull give 2n-h-2 triangles.
	if want := 2*len(pts) - 4 - 2; len(tris) != want {
		t.Errorf("expected %d triangles, got %d", want, len(tris))
	}
	for i, tri := range tris {
		a, b, c := pts[tri[0]], pts[tri[1]], pts[tri[2]]
		if orientation2D(a, b, c) <= 0 {
			t.Errorf("triangle %d is not counter-clockwise", i)
		}
		for j, p := range pts {
			if j == tri[0] || j == tri[1] || j == tri[2] {
				continue
			}
			if inCircumcircle(a, b, c, p) {
				t.Errorf("point %d lies inside circumcircle of triangle %d", j, i)
			}
		}
	}
}

func TestTriangulate_TooFewPoints(t *testing.T) {
	if _, err := Triangulate([]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 1}}); err == nil {
		t.Error("expected error for two points")
	}
	if _, err := Triangulate([]math.Vec2{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}); err == nil {
		t.Error("expected error for coincident points")
	}
}

func TestInCircumcircle_Winding(t *testing.T) {
	a, b, c := math.Vec2{X: 0, Y: 0}, math.Vec2{X: 1, Y: 0}, math.Vec2{X: 0, Y: 1}
	inside := math.Vec2{X: 0.4, Y: 0.4}
	outside := math.Vec2{X: 2, Y: 2}
	if !inCircumcircle(a, b, c, inside) || !inCircumcircle(a, c, b, inside) {
		t.Error("point should be inside for both windings")
	}
	if inCircumcircle(a, b, c, outside) || inCircumcircle(a, c, b, outside) {
		t.Error("point should be outside for both windings")
	}
}

func TestTIN_ToSurfaceMesh(t *testing.T) {
	hf := mockField(t, 16, 12, bumpy)
	tin, err := BuildTIN(hf, 0.01, 80)
	if err != nil {
		t.Fatalf("BuildTIN failed: %v", err)
	}
	m, err := tin.ToSurfaceMesh(hf, 1.5, 10)
	if err != nil {
		t.Fatalf("ToSurfaceMesh failed: %v", err)
	}
	if m.IsGrid() {
		t.Error("TIN mesh should not claim grid layout")
	}

	grid, _ := BuildGrid(hf, 1.5, 10, 1)
	gb, tb := grid.Bounds(), m.Bounds()
	if gb.Min.X != tb.Min.X || gb.Max.X != tb.Max.X || gb.Min.Y != tb.Min.Y || gb.Max.Y != tb.Max.Y {
		t.Errorf("TIN footprint %+v differs from grid %+v", tb, gb)
	}

	for i := range m.TriangleCount() {
		tri := m.Triangle(i)
		if n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0])); n.Z <= 0 {
			t.Errorf("triangle %d faces down", i)
		}
	}
}

func TestNewMesher(t *testing.T) {
	hf := mockField(t, 10, 10, bumpy)
	for _, s := range []string{StrategyGrid, StrategyTIN} {
		mesher, err := NewMesher(s)
		if err != nil {
			t.Fatalf("NewMesher(%q) failed: %v", s, err)
		}
		m, err := mesher.Mesh(hf, DefaultOptions())
		if err != nil {
			t.Fatalf("%s: Mesh failed: %v", s, err)
		}
		if m.TriangleCount() == 0 {
			t.Errorf("%s: empty mesh", s)
		}
	}
	if _, err := NewMesher("voxel"); err == nil {
		t.Error("expected error for unknown strategy")
	}
}
