// Package pipeline runs the heightfield to printable-tile data flow with the
// settings from internal/config.
package pipeline

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/Faultbox/terratile/internal/config"
	"github.com/Faultbox/terratile/internal/logger"
	"github.com/Faultbox/terratile/pkg/contour"
	"github.com/Faultbox/terratile/pkg/heightfield"
	"github.com/Faultbox/terratile/pkg/solid"
	"github.com/Faultbox/terratile/pkg/stl"
	"github.com/Faultbox/terratile/pkg/terrain"
)

// Engine turns heightfields into meshes, solids, STL bytes and contours.
// It holds no per-tile state and may be shared between goroutines.
type Engine struct {
	cfg    *config.Config
	log    *zap.Logger
	mesher terrain.Mesher
}

// New creates an engine. A nil logger uses the global one.
func New(cfg *config.Config, log *zap.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	mesher, err := terrain.NewMesher(cfg.Mesh.Strategy)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Named("pipeline")
	}
	return &Engine{cfg: cfg, log: log, mesher: mesher}, nil
}

// Config returns the engine settings.
func (e *Engine) Config() *config.Config {
	return e.cfg
}

func (e *Engine) meshOptions() terrain.Options {
	return terrain.Options{
		Exaggeration:     e.cfg.Mesh.VerticalExaggeration,
		Extent:           e.cfg.Mesh.MeshExtent,
		Decimation:       e.cfg.Mesh.DecimationFactor,
		MaxErrorFraction: e.cfg.TIN.MaxErrorFraction,
		MaxPoints:        e.cfg.TIN.MaxPoints,
	}
}

// Prepare validates hf and applies the configured Gaussian smoothing.
func (e *Engine) Prepare(hf *heightfield.Heightfield) (*heightfield.Heightfield, error) {
	if hf == nil {
		return nil, fmt.Errorf("%w: nil heightfield", heightfield.ErrInvalidInput)
	}
	if err := hf.Validate(); err != nil {
		return nil, err
	}
	if e.cfg.Smoothing.Passes == 0 {
		return hf, nil
	}

	smoothed, err := heightfield.Smooth(hf, e.cfg.Smoothing.Passes, e.cfg.Smoothing.Radius)
	if err != nil {
		return nil, fmt.Errorf("smoothing heightfield: %w", err)
	}
	e.log.Debug("heightfield smoothed",
		zap.Int("passes", e.cfg.Smoothing.Passes),
		zap.Int("radius", e.cfg.Smoothing.Radius))
	return smoothed, nil
}

// BuildSurface prepares hf and meshes it with the configured strategy.
// Laplacian smoothing only applies to grid meshes.
func (e *Engine) BuildSurface(hf *heightfield.Heightfield) (*terrain.SurfaceMesh, error) {
	prepared, err := e.Prepare(hf)
	if err != nil {
		return nil, err
	}

	mesh, err := e.mesher.Mesh(prepared, e.meshOptions())
	if err != nil {
		return nil, fmt.Errorf("building %s mesh: %w", e.cfg.Mesh.Strategy, err)
	}

	if passes := e.cfg.Smoothing.LaplacianPasses; passes > 0 {
		if mesh.IsGrid() {
			mesh, err = terrain.Laplacian(mesh, passes, e.cfg.Smoothing.LaplacianLambda)
			if err != nil {
				return nil, fmt.Errorf("laplacian smoothing: %w", err)
			}
		} else {
			e.log.Debug("laplacian smoothing skipped for non-grid mesh")
		}
	}

	if mesh.Degenerate > 0 {
		e.log.Debug("degenerate triangles in surface", zap.Int("count", mesh.Degenerate))
	}
	e.log.Debug("surface built",
		zap.String("strategy", e.cfg.Mesh.Strategy),
		zap.Int("vertices", len(mesh.Positions)),
		zap.Int("triangles", mesh.TriangleCount()))
	return mesh, nil
}

// BaseThickness returns the configured base thickness in design units, so that
// after print scaling the base measures export.base_thickness_mm.
func (e *Engine) BaseThickness() float64 {
	return e.cfg.Export.BaseThicknessMm * e.cfg.Mesh.MeshExtent / e.cfg.Export.TileSizeMm
}

// BuildSolid extrudes the surface of hf and scales it to the tile size in mm.
// A solid that is not watertight is still returned; the problem is logged.
func (e *Engine) BuildSolid(hf *heightfield.Heightfield) (*solid.Mesh, error) {
	surface, err := e.BuildSurface(hf)
	if err != nil {
		return nil, err
	}
	return e.solidify(surface)
}

func (e *Engine) solidify(surface *terrain.SurfaceMesh) (*solid.Mesh, error) {
	m, err := solid.Extrude(surface, e.BaseThickness())
	if err != nil {
		return nil, fmt.Errorf("extruding solid: %w", err)
	}
	if !m.Report.Watertight {
		e.log.Warn("solid is not watertight",
			zap.Int("boundary_loops", m.Report.BoundaryLoops),
			zap.Int("non_manifold_edges", m.Report.NonManifoldEdges),
			zap.Int("branch_vertices", m.Report.BranchVertices))
	}

	scaled, err := solid.ScaleForPrinting(m, e.cfg.Export.TileSizeMm)
	if err != nil {
		return nil, fmt.Errorf("scaling solid: %w", err)
	}
	return scaled, nil
}

// ExportSTL builds the solid for hf and writes it to w as binary STL.
func (e *Engine) ExportSTL(w io.Writer, hf *heightfield.Heightfield) (*solid.Mesh, error) {
	m, err := e.BuildSolid(hf)
	if err != nil {
		return nil, err
	}
	if err := stl.Encode(w, e.cfg.Export.STLHeader, m); err != nil {
		return nil, fmt.Errorf("writing STL: %w", err)
	}
	e.log.Debug("STL written",
		zap.Int("triangles", m.TriangleCount()),
		zap.Int("bytes", stl.Size(m.TriangleCount())))
	return m, nil
}

// Contours prepares hf and extracts the configured number of contour layers.
func (e *Engine) Contours(hf *heightfield.Heightfield) ([]contour.Layer, error) {
	prepared, err := e.Prepare(hf)
	if err != nil {
		return nil, err
	}
	layers, err := contour.Extract(prepared, e.cfg.Contours.Layers)
	if err != nil {
		return nil, fmt.Errorf("extracting contours: %w", err)
	}
	return layers, nil
}

// ExportSVG writes the contour layers of hf as an SVG cutting sheet.
func (e *Engine) ExportSVG(w io.Writer, hf *heightfield.Heightfield) ([]contour.Layer, error) {
	layers, err := e.Contours(hf)
	if err != nil {
		return nil, err
	}
	opts := contour.SVGOptions{SizeMm: e.cfg.Contours.SVGSizeMm, StrokeMm: e.cfg.Contours.StrokeMm}
	if err := contour.WriteSVG(w, layers, opts); err != nil {
		return nil, fmt.Errorf("writing SVG: %w", err)
	}
	return layers, nil
}

// TIN prepares hf and selects its adaptive point set and triangulation.
func (e *Engine) TIN(hf *heightfield.Heightfield) (*terrain.TIN, error) {
	prepared, err := e.Prepare(hf)
	if err != nil {
		return nil, err
	}
	tin, err := terrain.BuildTIN(prepared, e.cfg.TIN.MaxErrorFraction, e.cfg.TIN.MaxPoints)
	if err != nil {
		return nil, fmt.Errorf("building TIN: %w", err)
	}
	e.log.Debug("TIN built",
		zap.Int("points", len(tin.Points)),
		zap.Int("triangles", tin.TriangleCount()))
	return tin, nil
}
