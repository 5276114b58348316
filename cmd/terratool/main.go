// terratool converts JSON heightfields into printable STL tiles and
// laser-cut contour sheets.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/Faultbox/terratile/internal/assets"
	"github.com/Faultbox/terratile/internal/config"
	"github.com/Faultbox/terratile/internal/logger"
	"github.com/Faultbox/terratile/internal/pipeline"
	"github.com/Faultbox/terratile/pkg/heightfield"
)

func main() {
	config.ParseFlags()

	args := config.Args()
	if len(args) < 1 {
		printUsage()
		os.Exit(1)
	}
	command, args := args[0], args[1:]

	if command == "help" {
		printUsage()
		return
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine, err := pipeline.New(cfg, logger.Named("pipeline"))
	if err != nil {
		logger.Error("failed to create engine", zap.Error(err))
		os.Exit(1)
	}

	for _, dir := range cfg.Data.SearchPaths {
		if err := fields.AddDir(dir); err != nil {
			logger.Warn("skipping search path", zap.Error(err))
		}
	}
	defer fields.Close()

	switch command {
	case "stl":
		err = cmdSTL(engine, args)
	case "svg", "contours":
		err = cmdSVG(engine, args)
	case "tin":
		err = cmdTIN(engine, args)
	case "info":
		err = cmdInfo(engine, args)
	case "batch":
		err = cmdBatch(engine, args)
	case "init-config":
		err = cmdInitConfig(cfg, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		logger.Error(command+" failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`terratool - terrain tile generator

Usage:
  terratool [flags] <command> [arguments]

Commands:
  stl <in.json> [out.stl]       Build a printable solid (stdout if no output)
  svg <in.json> [out.svg]       Write contour layers as an SVG cutting sheet
  tin <in.json>                 Show adaptive triangulation statistics
  info <in.json>                Show heightfield and mesh statistics
  batch <out-dir> <in.json>...  Export several tiles as STL
  init-config [path]            Write the effective config as YAML

Flags:
  -config <path>        Config file (default ./terratile.yaml)
  -debug                Debug logging
  -exaggeration <f>     Vertical exaggeration
  -decimation <n>       Grid decimation factor
  -strategy grid|tin    Mesh strategy
  -smooth <n>           Heightfield smoothing passes (0-3)
  -laplacian <n>        Laplacian mesh smoothing passes (0-3)
  -base <mm>            Base thickness
  -tile <mm>            Tile size
  -layers <n>           Contour layers

Examples:
  terratool stl alps.json alps.stl
  terratool -exaggeration 2.5 -smooth 1 stl alps.json > alps.stl
  terratool -layers 8 svg alps.json alps.svg
  terratool batch ./tiles n45e006.json n45e007.json`)
}

// fields resolves input names against data.search_paths.
var fields = assets.NewManager()

func readHeightfield(path string) (*heightfield.Heightfield, error) {
	hf, err := fields.Load(path)
	if err != nil {
		return nil, err
	}
	logger.Debug("heightfield loaded",
		zap.String("path", path),
		zap.Int("width", hf.Width),
		zap.Int("height", hf.Height),
		zap.Float64("min", hf.Min),
		zap.Float64("max", hf.Max))
	return hf, nil
}

// output opens path for writing, or stdout when path is empty or "-".
func output(path string) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func inputOutput(usage string, args []string) (in, out string, err error) {
	if len(args) < 1 {
		return "", "", fmt.Errorf("usage: terratool %s", usage)
	}
	in = args[0]
	if len(args) > 1 {
		out = args[1]
	}
	return in, out, nil
}

func cmdSTL(engine *pipeline.Engine, args []string) error {
	in, out, err := inputOutput("stl <in.json> [out.stl]", args)
	if err != nil {
		return err
	}
	hf, err := readHeightfield(in)
	if err != nil {
		return err
	}

	w, err := output(out)
	if err != nil {
		return err
	}
	m, err := engine.ExportSTL(w, hf)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("STL exported",
		zap.String("input", in),
		zap.String("output", out),
		zap.Int("triangles", m.TriangleCount()),
		zap.Bool("watertight", m.Report.Watertight))
	return nil
}

func cmdSVG(engine *pipeline.Engine, args []string) error {
	in, out, err := inputOutput("svg <in.json> [out.svg]", args)
	if err != nil {
		return err
	}
	hf, err := readHeightfield(in)
	if err != nil {
		return err
	}

	w, err := output(out)
	if err != nil {
		return err
	}
	layers, err := engine.ExportSVG(w, hf)
	if cerr := w.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	logger.Info("contours exported", zap.String("input", in), zap.Int("layers", len(layers)))
	return nil
}

func cmdTIN(engine *pipeline.Engine, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: terratool tin <in.json>")
	}
	hf, err := readHeightfield(args[0])
	if err != nil {
		return err
	}
	tin, err := engine.TIN(hf)
	if err != nil {
		return err
	}

	cells := hf.Width * hf.Height
	fmt.Printf("Grid:      %d x %d (%d samples)\n", hf.Width, hf.Height, cells)
	fmt.Printf("Points:    %d (%.1f%%)\n", len(tin.Points), 100*float64(len(tin.Points))/float64(cells))
	fmt.Printf("Triangles: %d (grid would use %d)\n", tin.TriangleCount(), 2*(hf.Width-1)*(hf.Height-1))
	return nil
}

func cmdInfo(engine *pipeline.Engine, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: terratool info <in.json>")
	}
	hf, err := readHeightfield(args[0])
	if err != nil {
		return err
	}
	s, err := engine.Stats(hf)
	if err != nil {
		return err
	}

	size := s.Bounds.Size()
	cfg := engine.Config()
	fmt.Printf("Heightfield: %s\n", args[0])
	fmt.Printf("  Samples:   %d x %d\n", s.Width, s.Height)
	fmt.Printf("  Elevation: %.2f .. %.2f\n", s.MinElevation, s.MaxElevation)
	fmt.Println()
	fmt.Printf("Surface (%s):\n", cfg.Mesh.Strategy)
	fmt.Printf("  Vertices:   %d\n", s.Vertices)
	fmt.Printf("  Triangles:  %d (%d degenerate)\n", s.Triangles, s.Degenerate)
	fmt.Printf("  Size:       %.3f x %.3f x %.3f\n", size.X, size.Y, size.Z)
	fmt.Printf("  Boundary:   %d edges, %d loop(s)\n", s.Surface.BoundaryEdges, s.Surface.BoundaryLoops)
	fmt.Printf("  Watertight: %v\n", s.Surface.Watertight)
	fmt.Println()
	fmt.Printf("Solid (%.0f mm tile, %.1f mm base):\n", cfg.Export.TileSizeMm, cfg.Export.BaseThicknessMm)
	fmt.Printf("  Triangles:  %d\n", s.SolidTris)
	fmt.Printf("  STL size:   %.2f KB\n", float64(s.STLBytes)/1024)
	fmt.Printf("  Contours:   %d polylines in %d layers\n", s.ContourPolylines, s.ContourLayers)
	return nil
}

func cmdBatch(engine *pipeline.Engine, args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: terratool batch <out-dir> <in.json>...")
	}
	outDir := args[0]
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	var tiles []pipeline.Tile
	for _, path := range args[1:] {
		hf, err := readHeightfield(path)
		if err != nil {
			return err
		}
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		tiles = append(tiles, pipeline.Tile{Name: name, Field: hf})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	open := func(name string) (io.WriteCloser, error) {
		return os.Create(filepath.Join(outDir, name+".stl"))
	}
	results, err := engine.ExportTiles(ctx, tiles, open)
	logger.Info("batch finished", zap.Int("exported", len(results)), zap.Int("requested", len(tiles)))
	return err
}

func cmdInitConfig(cfg *config.Config, args []string) error {
	if len(args) > 0 {
		return cfg.SaveTo(args[0])
	}
	if err := cfg.Save(); err != nil {
		return err
	}
	logger.Info("config written", zap.String("dir", config.ConfigDir()))
	return nil
}
