package config

import "flag"

var (
	flagConfig     = flag.String("config", "", "Path to config file")
	flagDebug      = flag.Bool("debug", false, "Enable debug logging")
	flagModel      = flag.String("model", "", "Path to a glTF/GLB model to load")
	flagAnimation  = flag.String("animation", "", "Animation clip to play on startup")
	flagSpeed      = flag.Float64("speed", 0, "Playback speed multiplier")
	flagWindowed   = flag.Bool("windowed", false, "Run in windowed mode")
	flagFullscreen = flag.Bool("fullscreen", false, "Run in fullscreen mode")
	flagWidth      = flag.Int("width", 0, "Window width")
	flagHeight     = flag.Int("height", 0, "Window height")
	flagShadowRes  = flag.Int("shadow-res", 0, "Shadow map resolution")
	flagNoShadows  = flag.Bool("no-shadows", false, "Disable the shadow pass")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path from the -config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagModel != "" {
		cfg.Scene.ModelPath = *flagModel
	}
	if *flagAnimation != "" {
		cfg.Scene.Animation = *flagAnimation
	}
	if *flagSpeed != 0 {
		cfg.Scene.PlaybackSpeed = float32(*flagSpeed)
	}
	if *flagWindowed {
		cfg.Graphics.Fullscreen = false
	}
	if *flagFullscreen {
		cfg.Graphics.Fullscreen = true
	}
	if *flagWidth > 0 {
		cfg.Graphics.Width = *flagWidth
	}
	if *flagHeight > 0 {
		cfg.Graphics.Height = *flagHeight
	}
	if *flagShadowRes > 0 {
		cfg.Shadow.Resolution = int32(*flagShadowRes)
	}
	if *flagNoShadows {
		cfg.Shadow.Enabled = false
	}

	// First positional argument is a model path shortcut.
	if flag.NArg() > 0 && cfg.Scene.ModelPath == "" {
		cfg.Scene.ModelPath = flag.Arg(0)
	}
}
