package terrain

import (
	"fmt"
	gomath "math"
	"sort"

	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/math"
)

// TIN tuning constants.
const (
	tinBorderDivisions  = 20
	tinGradientWeight   = 0.5
	tinThresholdFactor  = 0.1
	DefaultTINMaxError  = 0.01
	DefaultTINMaxPoints = 5000
)

// TINPoint is a selected heightfield sample.
type TINPoint struct {
	X, Y      int
	Elevation float64
}

// TIN is a triangulated irregular network over an adaptively chosen subset of
// heightfield samples. Indices wind counter-clockwise seen from above (north up).
type TIN struct {
	Points  []TINPoint
	Indices []uint32

	// Source grid dimensions, used to map points back into design space.
	Width  int
	Height int
}

// TriangleCount returns the number of triangles.
func (t *TIN) TriangleCount() int {
	return len(t.Indices) / 3
}

// BuildTIN selects the corners, a border stripe and the most important interior
// samples, then triangulates them.
//
// Importance is |z - mean(4 neighbours)| + 0.5*|central-difference gradient|.
// Only samples scoring above 0.1*maxErrorFraction*range are eligible, best first,
// until the total reaches maxPoints. Any budget left over is spent on a regular
// interior grid. Corners and border are always present, whatever maxPoints says.
func BuildTIN(hf *heightfield.Heightfield, maxErrorFraction float64, maxPoints int) (*TIN, error) {
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	if maxErrorFraction < 0 || gomath.IsNaN(maxErrorFraction) {
		return nil, fmt.Errorf("%w: max error fraction %v", ErrInvalidOptions, maxErrorFraction)
	}

	sel := newSelection(hf)
	w, h := hf.Width, hf.Height

	for _, c := range [4][2]int{{0, 0}, {w - 1, 0}, {0, h - 1}, {w - 1, h - 1}} {
		sel.add(c[0], c[1])
	}

	step := max(1, max(w, h)/tinBorderDivisions)
	for x := 0; x < w; x += step {
		sel.add(x, 0)
		sel.add(x, h-1)
	}
	for y := 0; y < h; y += step {
		sel.add(0, y)
		sel.add(w-1, y)
	}

	threshold := tinThresholdFactor * maxErrorFraction * hf.Range()
	for _, c := range rankInterior(hf, threshold) {
		if len(sel.order) >= maxPoints {
			break
		}
		sel.add(c.x, c.y)
	}

	if remaining := maxPoints - len(sel.order); remaining > 0 && w > 2 && h > 2 {
		interior := float64((w - 2) * (h - 2))
		fill := max(1, int(gomath.Ceil(gomath.Sqrt(interior/float64(remaining)))))
	fillGrid:
		for y := fill; y < h-1; y += fill {
			for x := fill; x < w-1; x += fill {
				if len(sel.order) >= maxPoints {
					break fillGrid
				}
				sel.add(x, y)
			}
		}
	}

	// Triangulate with north up so counter-clockwise matches the grid builder.
	pts := make([]math.Vec2, len(sel.order))
	for i, p := range sel.order {
		pts[i] = math.Vec2{X: float64(p.X), Y: -float64(p.Y)}
	}
	tris, err := Triangulate(pts)
	if err != nil {
		return nil, err
	}

	indices := make([]uint32, 0, len(tris)*3)
	for _, t := range tris {
		indices = append(indices, uint32(t[0]), uint32(t[1]), uint32(t[2]))
	}

	return &TIN{
		Points:  sel.order,
		Indices: indices,
		Width:   w,
		Height:  h,
	}, nil
}

// ToSurfaceMesh places the TIN in the same design space BuildGrid uses.
func (t *TIN) ToSurfaceMesh(hf *heightfield.Heightfield, exaggeration, extent float64) (*SurfaceMesh, error) {
	if exaggeration <= 0 || extent <= 0 {
		return nil, fmt.Errorf("%w: exaggeration=%v extent=%v", ErrInvalidOptions, exaggeration, extent)
	}
	if hf.Width != t.Width || hf.Height != t.Height {
		return nil, fmt.Errorf("%w: TIN built for %dx%d, heightfield is %dx%d",
			ErrInvalidOptions, t.Width, t.Height, hf.Width, hf.Height)
	}

	scale := scaleFactor(hf, exaggeration)
	half := extent / 2
	positions := make([]math.Vec3, len(t.Points))
	for i, p := range t.Points {
		positions[i] = math.Vec3{
			X: float64(p.X)/float64(t.Width-1)*extent - half,
			Y: half - float64(p.Y)/float64(t.Height-1)*extent,
			Z: (p.Elevation - hf.Min) * scale,
		}
	}

	indices := append([]uint32(nil), t.Indices...)
	normals, degenerate := ComputeNormals(positions, indices)
	return &SurfaceMesh{
		Positions:  positions,
		Indices:    indices,
		Normals:    normals,
		Degenerate: degenerate,
	}, nil
}

type selection struct {
	hf    *heightfield.Heightfield
	seen  map[int]bool
	order []TINPoint
}

func newSelection(hf *heightfield.Heightfield) *selection {
	return &selection{hf: hf, seen: make(map[int]bool)}
}

func (s *selection) add(x, y int) {
	idx := y*s.hf.Width + x
	if s.seen[idx] {
		return
	}
	s.seen[idx] = true
	s.order = append(s.order, TINPoint{X: x, Y: y, Elevation: s.hf.Samples[idx]})
}

type candidate struct {
	x, y  int
	score float64
}

// rankInterior scores interior samples and returns those above threshold, best first.
func rankInterior(hf *heightfield.Heightfield, threshold float64) []candidate {
	var out []candidate
	for y := 1; y < hf.Height-1; y++ {
		for x := 1; x < hf.Width-1; x++ {
			left, right := hf.At(x-1, y), hf.At(x+1, y)
			up, down := hf.At(x, y-1), hf.At(x, y+1)
			z := hf.At(x, y)

			curvature := gomath.Abs(z - (left+right+up+down)/4)
			gradient := gomath.Hypot((right-left)/2, (down-up)/2)
			score := curvature + tinGradientWeight*gradient
			if score > threshold {
				out = append(out, candidate{x, y, score})
			}
		}
	}
	// Stable on row-major order so ties resolve the same way every run.
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].score > out[j].score
	})
	return out
}
