// Package config handles terrain engine configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/multierr"
)

// ErrInvalidConfig is returned by Validate for any out-of-range setting.
var ErrInvalidConfig = errors.New("invalid config")

// Strategy names accepted by MeshConfig.Strategy.
const (
	StrategyGrid = "grid"
	StrategyTIN  = "tin"
)

// Config holds all engine settings.
type Config struct {
	Mesh      MeshConfig      `yaml:"mesh"`
	Smoothing SmoothingConfig `yaml:"smoothing"`
	TIN       TINConfig       `yaml:"tin"`
	Contours  ContourConfig   `yaml:"contours"`
	Export    ExportConfig    `yaml:"export"`
	Data      DataConfig      `yaml:"data"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// DataConfig holds input file locations.
type DataConfig struct {
	SearchPaths []string `yaml:"search_paths"` // Directories searched for heightfield JSON
}

// MeshConfig holds surface mesh settings.
type MeshConfig struct {
	VerticalExaggeration float64 `yaml:"vertical_exaggeration"`
	MeshExtent           float64 `yaml:"mesh_extent"`
	DecimationFactor     int     `yaml:"decimation_factor"`
	Strategy             string  `yaml:"strategy"` // grid or tin
}

// SmoothingConfig holds heightfield and mesh smoothing settings.
type SmoothingConfig struct {
	Passes          int     `yaml:"passes"`
	Radius          int     `yaml:"radius"`
	LaplacianPasses int     `yaml:"laplacian_passes"`
	LaplacianLambda float64 `yaml:"laplacian_lambda"`
}

// TINConfig holds adaptive triangulation settings.
type TINConfig struct {
	MaxErrorFraction float64 `yaml:"max_error_fraction"`
	MaxPoints        int     `yaml:"max_points"`
}

// ContourConfig holds contour extraction and SVG output settings.
type ContourConfig struct {
	Layers    int     `yaml:"layers"`
	SVGSizeMm float64 `yaml:"svg_size_mm"`
	StrokeMm  float64 `yaml:"stroke_mm"`
}

// ExportConfig holds solid and STL output settings.
type ExportConfig struct {
	BaseThicknessMm float64       `yaml:"base_thickness_mm"`
	TileSizeMm      float64       `yaml:"tile_size_mm"`
	STLHeader       string        `yaml:"stl_header"`
	TilePause       time.Duration `yaml:"tile_pause"` // Delay between tiles in batch export
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Mesh: MeshConfig{
			VerticalExaggeration: 1.5,
			MeshExtent:           10,
			DecimationFactor:     1,
			Strategy:             StrategyGrid,
		},
		Smoothing: SmoothingConfig{
			Passes:          0,
			Radius:          1,
			LaplacianPasses: 0,
			LaplacianLambda: 0.5,
		},
		TIN: TINConfig{
			MaxErrorFraction: 0.01,
			MaxPoints:        5000,
		},
		Contours: ContourConfig{
			Layers:    10,
			SVGSizeMm: 150,
			StrokeMm:  0.1,
		},
		Export: ExportConfig{
			BaseThicknessMm: 5,
			TileSizeMm:      150,
			STLHeader:       "Binary STL - TerrainTiles Export",
			TilePause:       0,
		},
		Data: DataConfig{
			SearchPaths: nil,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Validate checks every setting and reports all violations at once.
func (c *Config) Validate() error {
	var errs error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = multierr.Append(errs, fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...)))
		}
	}

	check(c.Mesh.VerticalExaggeration > 0, "mesh.vertical_exaggeration must be > 0, got %v", c.Mesh.VerticalExaggeration)
	check(c.Mesh.MeshExtent > 0, "mesh.mesh_extent must be > 0, got %v", c.Mesh.MeshExtent)
	check(c.Mesh.DecimationFactor >= 1, "mesh.decimation_factor must be >= 1, got %d", c.Mesh.DecimationFactor)
	check(c.Mesh.Strategy == StrategyGrid || c.Mesh.Strategy == StrategyTIN,
		"mesh.strategy must be %q or %q, got %q", StrategyGrid, StrategyTIN, c.Mesh.Strategy)

	check(c.Smoothing.Passes >= 0 && c.Smoothing.Passes <= 3, "smoothing.passes must be in 0..3, got %d", c.Smoothing.Passes)
	check(c.Smoothing.Radius >= 1 && c.Smoothing.Radius <= 2, "smoothing.radius must be in 1..2, got %d", c.Smoothing.Radius)
	check(c.Smoothing.LaplacianPasses >= 0 && c.Smoothing.LaplacianPasses <= 3,
		"smoothing.laplacian_passes must be in 0..3, got %d", c.Smoothing.LaplacianPasses)
	check(c.Smoothing.LaplacianLambda > 0 && c.Smoothing.LaplacianLambda <= 1,
		"smoothing.laplacian_lambda must be in (0, 1], got %v", c.Smoothing.LaplacianLambda)

	check(c.TIN.MaxErrorFraction >= 0, "tin.max_error_fraction must be >= 0, got %v", c.TIN.MaxErrorFraction)
	check(c.TIN.MaxPoints >= 4, "tin.max_points must be >= 4, got %d", c.TIN.MaxPoints)

	check(c.Contours.Layers >= 2, "contours.layers must be >= 2, got %d", c.Contours.Layers)
	check(c.Contours.SVGSizeMm > 0, "contours.svg_size_mm must be > 0, got %v", c.Contours.SVGSizeMm)
	check(c.Contours.StrokeMm > 0, "contours.stroke_mm must be > 0, got %v", c.Contours.StrokeMm)

	check(c.Export.BaseThicknessMm >= 0, "export.base_thickness_mm must be >= 0, got %v", c.Export.BaseThicknessMm)
	check(c.Export.TileSizeMm > 0, "export.tile_size_mm must be > 0, got %v", c.Export.TileSizeMm)
	check(c.Export.TilePause >= 0, "export.tile_pause must be >= 0, got %v", c.Export.TilePause)

	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		check(false, "logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}

	return errs
}
