package pipeline

import (
	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/solid"
	"github.com/Faultbox/terratile/pkg/stl"
	"github.com/Faultbox/terratile/pkg/terrain"
)

// Stats summarizes what the engine would produce for a heightfield.
type Stats struct {
	Width, Height int
	MinElevation  float64
	MaxElevation  float64

	Vertices   int
	Triangles  int
	Degenerate int
	Bounds     terrain.Bounds

	Surface      solid.Report
	SolidTris    int
	STLBytes     int
	ContourLayers    int
	ContourPolylines int
}

// Stats builds the surface and solid for hf and reports their sizes.
func (e *Engine) Stats(hf *heightfield.Heightfield) (*Stats, error) {
	surface, err := e.BuildSurface(hf)
	if err != nil {
		return nil, err
	}
	m, err := e.solidify(surface)
	if err != nil {
		return nil, err
	}
	layers, err := e.Contours(hf)
	if err != nil {
		return nil, err
	}

	s := &Stats{
		Width:        hf.Width,
		Height:       hf.Height,
		MinElevation: hf.Min,
		MaxElevation: hf.Max,
		Vertices:     len(surface.Positions),
		Triangles:    surface.TriangleCount(),
		Degenerate:   surface.Degenerate,
		Bounds:       surface.Bounds(),
		Surface:      solid.Analyze(surface),
		SolidTris:    m.TriangleCount(),
		STLBytes:     stl.Size(m.TriangleCount()),
	}
	s.ContourLayers = len(layers)
	for _, l := range layers {
		s.ContourPolylines += len(l.Polylines)
	}
	return s, nil
}
