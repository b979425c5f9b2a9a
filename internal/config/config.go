// Package config handles viewer configuration loading and management.
package config

// Config holds all viewer settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics"`
	Shadow   ShadowConfig   `yaml:"shadow"`
	Scene    SceneConfig    `yaml:"scene"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// GraphicsConfig holds display settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// ShadowConfig holds shadow mapping settings.
type ShadowConfig struct {
	Enabled    bool  `yaml:"enabled"`
	Resolution int32 `yaml:"resolution"`
}

// SceneConfig holds the content to load and playback settings.
type SceneConfig struct {
	ModelPath     string  `yaml:"model_path"`
	Animation     string  `yaml:"animation"`      // clip selected on startup, empty selects the first
	PlaybackSpeed float32 `yaml:"playback_speed"` // clock multiplier, 1.0 is realtime
	GroundPlane   bool    `yaml:"ground_plane"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Shadow: ShadowConfig{
			Enabled:    true,
			Resolution: 2048,
		},
		Scene: SceneConfig{
			PlaybackSpeed: 1.0,
			GroundPlane:   true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
