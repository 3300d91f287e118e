// Package config handles engine configuration loading and management.
package config

import "time"

// Config holds all engine settings.
type Config struct {
	Graphics GraphicsConfig `yaml:"graphics" toml:"graphics"`
	Assets   AssetsConfig   `yaml:"assets" toml:"assets"`
	Fog      FogConfig      `yaml:"fog" toml:"fog"`
	Camera   CameraConfig   `yaml:"camera" toml:"camera"`
	Logging  LoggingConfig  `yaml:"logging" toml:"logging"`
}

// GraphicsConfig holds display and rendering settings.
type GraphicsConfig struct {
	Width      int  `yaml:"width" toml:"width"`
	Height     int  `yaml:"height" toml:"height"`
	Fullscreen bool `yaml:"fullscreen" toml:"fullscreen"`
	VSync      bool `yaml:"vsync" toml:"vsync"`
	FPSLimit   int  `yaml:"fps_limit" toml:"fps_limit"`
	// DumpCommands logs every recorded command buffer at debug level.
	DumpCommands bool `yaml:"dump_commands" toml:"dump_commands"`
}

// AssetsConfig holds asset source and streaming settings.
type AssetsConfig struct {
	Dirs      []string `yaml:"dirs" toml:"dirs"`         // Local directories, later entries win
	BaseURL   string   `yaml:"base_url" toml:"base_url"` // Optional HTTP source, searched last-added
	TimeoutMs int      `yaml:"timeout_ms" toml:"timeout_ms"`
	LoadQuota int      `yaml:"load_quota" toml:"load_quota"` // Concurrent texture loads per tick
	Textures  []string `yaml:"textures" toml:"textures"`     // Textures requested at startup
}

// Timeout returns the HTTP request timeout.
func (a AssetsConfig) Timeout() time.Duration {
	return time.Duration(a.TimeoutMs) * time.Millisecond
}

// FogConfig holds distance fog settings.
type FogConfig struct {
	Enabled bool       `yaml:"enabled" toml:"enabled"`
	Start   float32    `yaml:"start" toml:"start"`
	End     float32    `yaml:"end" toml:"end"`
	Density float32    `yaml:"density" toml:"density"`
	Color   [3]float32 `yaml:"color" toml:"color"`
}

// CameraConfig holds initial camera settings.
type CameraConfig struct {
	FovY     float32 `yaml:"fov_y" toml:"fov_y"`
	Near     float32 `yaml:"near" toml:"near"`
	Far      float32 `yaml:"far" toml:"far"`
	Distance float32 `yaml:"distance" toml:"distance"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level" toml:"level"`
	LogFile string `yaml:"log_file" toml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
			FPSLimit:   0,
		},
		Assets: AssetsConfig{
			Dirs:      []string{"assets"},
			TimeoutMs: 10000,
			LoadQuota: 4,
		},
		Fog: FogConfig{
			Enabled: true,
			Start:   20,
			End:     120,
			Density: 1,
			Color:   [3]float32{0.55, 0.6, 0.7},
		},
		Camera: CameraConfig{
			FovY:     60,
			Near:     0.1,
			Far:      500,
			Distance: 12,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
