package terrain

import (
	"errors"
	gomath "math"
	"testing"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
)

// mockField creates a heightfield from f(x, y).
func mockField(t *testing.T, w, h int, f func(x, y int) float64) *heightfield.Heightfield {
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
	return hf
}

func bumpy(x, y int) float64 {
	return gomath.Sin(float64(x)*0.7)*20 + gomath.Cos(float64(y)*0.4)*15 + float64(x*y%5)
}

func TestBuildGrid_Sizing(t *testing.T) {
	for _, n := range []int{2, 3, 8, 17} {
		hf := mockField(t, n, n, bumpy)
		m, err := BuildGrid(hf, 1.5, 10, 1)
		if err != nil {
			t.Fatalf("BuildGrid failed: %v", err)
		}
		if len(m.Positions) != n*n {
			t.Errorf("n=%d: expected %d vertices, got %d", n, n*n, len(m.Positions))
		}
		if m.TriangleCount() != 2*(n-1)*(n-1) {
			t.Errorf("n=%d: expected %d triangles, got %d", n, 2*(n-1)*(n-1), m.TriangleCount())
		}
		if len(m.Normals) != len(m.Positions) {
			t.Errorf("n=%d: %d normals for %d positions", n, len(m.Normals), len(m.Positions))
		}
		for _, idx := range m.Indices {
			if int(idx) >= len(m.Positions) {
				t.Fatalf("n=%d: index %d out of range", n, idx)
			}
		}
	}
}

func TestBuildGrid_Decimation(t *testing.T) {
	hf := mockField(t, 7, 5, func(x, y int) float64 { return float64(10*y + x) })
	m, err := BuildGrid(hf, 1, 10, 2)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	if m.GridWidth != 4 || m.GridHeight != 3 {
		t.Fatalf("expected 4x3 grid, got %dx%d", m.GridWidth, m.GridHeight)
	}

	// Column 3 samples x = min(6, 6), row 2 samples y = min(4, 4).
	scale := HeightScale / hf.Range()
	last := m.Positions[len(m.Positions)-1]
	if want := (46 - hf.Min) * scale; gomath.Abs(last.Z-want) > 1e-12 {
		t.Errorf("last vertex z = %v, want %v", last.Z, want)
	}

	// Large decimation still clamps inside the heightfield.
	m, err = BuildGrid(hf, 1, 10, 50)
	if err != nil {
		t.Fatalf("BuildGrid failed: %v", err)
	}
	if m.GridWidth != 2 || m.GridHeight != 2 {
		t.Errorf("expected 2x2 grid, got %dx%d", m.GridWidth, m.GridHeight)
	}
}

func TestBuildGrid_Extent(t *testing.T) {
	hf := mockField(t, 5, 4, bumpy)
	m, _ := BuildGrid(hf, 2, 10, 1)
	b := m.Bounds()
	if b.Min.X != -5 || b.Max.X != 5 || b.Min.Y != -5 || b.Max.Y != 5 {
		t.Errorf("unexpected footprint %+v", b)
	}
	if b.Min.Z != 0 {
		t.Errorf("lowest vertex should sit at z=0, got %v", b.Min.Z)
	}
	if want := HeightScale * 2; gomath.Abs(b.Max.Z-want) > 1e-9 {
		t.Errorf("tallest vertex z = %v, want %v", b.Max.Z, want)
	}
	// Row 0 is the north edge.
	if m.Positions[0].Y != 5 {
		t.Errorf("first vertex y = %v, want 5", m.Positions[0].Y)
	}
}

func TestBuildGrid_FlatTerrain(t *testing.T) {
	hf := mockField(t, 4, 4, func(int, int) float64 { return 120 })
	m, err := BuildGrid(hf, 1.5, 10, 1)
	if err != nil {
		t.Fatalf("flat terrain should not fail: %v", err)
	}
	for i, p := range m.Positions {
		if p.Z != 0 {
			t.Fatalf("vertex %d z = %v, want 0", i, p.Z)
		}
		if m.Normals[i] != (math.Vec3{Z: 1}) {
			t.Fatalf("vertex %d normal = %v, want +Z", i, m.Normals[i])
		}
	}
}

func TestBuildGrid_NormalsUnitAndUpward(t *testing.T) {
	hf := mockField(t, 9, 7, bumpy)
	m, _ := BuildGrid(hf, 3, 10, 1)

	for i := range m.TriangleCount() {
		tri := m.Triangle(i)
		n := tri[1].Sub(tri[0]).Cross(tri[2].Sub(tri[0]))
		if n.Length() == 0 {
			continue
		}
		if n.Z <= 0 {
			t.Errorf("triangle %d faces down: %v", i, n)
		}
		for k := range 3 {
			vn := m.Normals[m.Indices[3*i+k]]
			if l := vn.Length(); gomath.Abs(l-1) > 1e-5 {
				t.Errorf("vertex %d normal length %v", m.Indices[3*i+k], l)
			}
		}
	}
	if m.Degenerate != 0 {
		t.Errorf("expected no degenerate triangles, got %d", m.Degenerate)
	}
}

func TestBuildGrid_Deterministic(t *testing.T) {
	hf := mockField(t, 11, 9, bumpy)
	a, _ := BuildGrid(hf, 1.7, 12, 2)
	b, _ := BuildGrid(hf, 1.7, 12, 2)

	if len(a.Positions) != len(b.Positions) || len(a.Indices) != len(b.Indices) {
		t.Fatal("mesh sizes differ between runs")
	}
	for i := range a.Positions {
		if a.Positions[i] != b.Positions[i] || a.Normals[i] != b.Normals[i] {
			t.Fatalf("vertex %d differs between runs", i)
		}
	}
	for i := range a.Indices {
		if a.Indices[i] != b.Indices[i] {
			t.Fatalf("index %d differs between runs", i)
		}
	}
}

func TestBuildGrid_InvalidOptions(t *testing.T) {
	hf := mockField(t, 3, 3, bumpy)
	tests := []struct {
		name         string
		exaggeration float64
		extent       float64
		decimation   int
	}{
		{"zero exaggeration", 0, 10, 1},
		{"negative extent", 1, -1, 1},
		{"zero decimation", 1, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildGrid(hf, tt.exaggeration, tt.extent, tt.decimation)
			if !errors.Is(err, ErrInvalidOptions) {
				t.Errorf("expected ErrInvalidOptions, got %v", err)
			}
		})
	}

	bad := &heightfield.Heightfield{Samples: []float64{0, gomath.NaN(), 0, 0}, Width: 2, Height: 2}
	if _, err := BuildGrid(bad, 1, 10, 1); !errors.Is(err, heightfield.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for NaN sample, got %v", err)
	}
}

func TestComputeNormals_Degenerate(t *testing.T) {
	positions := []math.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 2, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}}
	normals, degenerate := ComputeNormals(positions, []uint32{0, 1, 2})
	if degenerate != 1 {
		t.Errorf("expected 1 degenerate triangle, got %d", degenerate)
	}
	for i, n := range normals {
		if n != (math.Vec3{}) {
			t.Errorf("vertex %d should keep a zero normal, got %v", i, n)
		}
	}
}
