package config

import "flag"

var (
	flagConfig       = flag.String("config", "", "Path to config file")
	flagDebug        = flag.Bool("debug", false, "Enable debug logging")
	flagExaggeration = flag.Float64("exaggeration", 0, "Vertical exaggeration")
	flagDecimation   = flag.Int("decimation", 0, "Grid decimation factor")
	flagStrategy     = flag.String("strategy", "", "Mesh strategy (grid or tin)")
	flagSmooth       = flag.Int("smooth", -1, "Heightfield smoothing passes (0-3)")
	flagLaplacian    = flag.Int("laplacian", -1, "Laplacian mesh smoothing passes (0-3)")
	flagBase         = flag.Float64("base", -1, "Base thickness in mm")
	flagTile         = flag.Float64("tile", 0, "Tile size in mm")
	flagLayers       = flag.Int("layers", 0, "Number of contour layers")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// Args returns the non-flag command-line arguments.
func Args() []string {
	return flag.Args()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagExaggeration > 0 {
		cfg.Mesh.VerticalExaggeration = *flagExaggeration
	}
	if *flagDecimation > 0 {
		cfg.Mesh.DecimationFactor = *flagDecimation
	}
	if *flagStrategy != "" {
		cfg.Mesh.Strategy = *flagStrategy
	}
	if *flagSmooth >= 0 {
		cfg.Smoothing.Passes = *flagSmooth
	}
	if *flagLaplacian >= 0 {
		cfg.Smoothing.LaplacianPasses = *flagLaplacian
	}
	if *flagBase >= 0 {
		cfg.Export.BaseThicknessMm = *flagBase
	}
	if *flagTile > 0 {
		cfg.Export.TileSizeMm = *flagTile
	}
	if *flagLayers > 0 {
		cfg.Contours.Layers = *flagLayers
	}
}
