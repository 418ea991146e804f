package config

import "flag"

var (
	flagConfig  = flag.String("config", "", "Path to config file")
	flagDebug   = flag.Bool("debug", false, "Enable debug logging")
	flagModel   = flag.String("model", "", "Model URL or file path to load")
	flagWatch   = flag.Bool("watch", false, "Reload the model when the source file changes")
	flagNoCache = flag.Bool("no-cache", false, "Bypass the model cache")
	flagNoLOD   = flag.Bool("no-lod", false, "Skip LOD generation")
	flagFPS     = flag.Int("fps", 0, "Tick rate of the demo host")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// NoCache reports whether --no-cache was set.
func NoCache() bool {
	return *flagNoCache
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Viewer.ModelURL = *flagModel
	}
	if *flagWatch {
		cfg.Viewer.Watch = true
	}
	if *flagNoLOD {
		cfg.Loader.EnableLOD = false
	}
	if *flagFPS > 0 {
		cfg.Viewer.FPS = *flagFPS
	}
}
