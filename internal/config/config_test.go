package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Test graphics defaults
	if cfg.Graphics.Width != 1280 {
		t.Errorf("expected width 1280, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 720 {
		t.Errorf("expected height 720, got %d", cfg.Graphics.Height)
	}
	if cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be false by default")
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync to be true by default")
	}

	// Test asset defaults
	if cfg.Assets.LoadQuota != 4 {
		t.Errorf("expected load quota 4, got %d", cfg.Assets.LoadQuota)
	}
	if cfg.Assets.Timeout() != 10*time.Second {
		t.Errorf("expected timeout 10s, got %v", cfg.Assets.Timeout())
	}

	// Test fog and camera defaults
	if !cfg.Fog.Enabled {
		t.Error("expected fog to be enabled by default")
	}
	if cfg.Fog.Start >= cfg.Fog.End {
		t.Errorf("expected fog start < end, got %f >= %f", cfg.Fog.Start, cfg.Fog.End)
	}
	if cfg.Camera.Near <= 0 || cfg.Camera.Far <= cfg.Camera.Near {
		t.Errorf("invalid clip range %f..%f", cfg.Camera.Near, cfg.Camera.Far)
	}

	// Test logging defaults
	if cfg.Logging.Level != "info" {
		t.Errorf("expected log level 'info', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "" {
		t.Errorf("expected empty log file, got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1920
  height: 1080
  fullscreen: true
  vsync: false
  fps_limit: 144

assets:
  dirs: ["data", "patch"]
  base_url: "https://cdn.example.com/assets"
  timeout_ms: 2500
  load_quota: 8

fog:
  enabled: false
  start: 5
  end: 50

logging:
  level: "debug"
  log_file: "game.log"
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Load config
	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Verify values were loaded
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920, got %d", cfg.Graphics.Width)
	}
	if cfg.Graphics.Height != 1080 {
		t.Errorf("expected height 1080, got %d", cfg.Graphics.Height)
	}
	if !cfg.Graphics.Fullscreen {
		t.Error("expected fullscreen to be true")
	}
	if cfg.Graphics.VSync {
		t.Error("expected vsync to be false")
	}
	if cfg.Graphics.FPSLimit != 144 {
		t.Errorf("expected fps limit 144, got %d", cfg.Graphics.FPSLimit)
	}

	if len(cfg.Assets.Dirs) != 2 || cfg.Assets.Dirs[1] != "patch" {
		t.Errorf("expected dirs [data patch], got %v", cfg.Assets.Dirs)
	}
	if cfg.Assets.BaseURL != "https://cdn.example.com/assets" {
		t.Errorf("unexpected base url %s", cfg.Assets.BaseURL)
	}
	if cfg.Assets.Timeout() != 2500*time.Millisecond {
		t.Errorf("expected timeout 2.5s, got %v", cfg.Assets.Timeout())
	}
	if cfg.Assets.LoadQuota != 8 {
		t.Errorf("expected load quota 8, got %d", cfg.Assets.LoadQuota)
	}

	if cfg.Fog.Enabled {
		t.Error("expected fog to be disabled")
	}
	if cfg.Fog.End != 50 {
		t.Errorf("expected fog end 50, got %f", cfg.Fog.End)
	}
	// Keys absent from the file keep their defaults.
	if cfg.Fog.Density != 1 {
		t.Errorf("expected default fog density 1, got %f", cfg.Fog.Density)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
	}
	if cfg.Logging.LogFile != "game.log" {
		t.Errorf("expected log file 'game.log', got %s", cfg.Logging.LogFile)
	}
}

func TestLoadFromTOMLFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
[graphics]
width = 800
height = 600

[assets]
load_quota = 2
textures = ["ground.png", "water.tga"]

[fog]
color = [0.1, 0.2, 0.3]
`

	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, configPath); err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if cfg.Graphics.Width != 800 || cfg.Graphics.Height != 600 {
		t.Errorf("expected 800x600, got %dx%d", cfg.Graphics.Width, cfg.Graphics.Height)
	}
	if cfg.Assets.LoadQuota != 2 {
		t.Errorf("expected load quota 2, got %d", cfg.Assets.LoadQuota)
	}
	if len(cfg.Assets.Textures) != 2 || cfg.Assets.Textures[1] != "water.tga" {
		t.Errorf("unexpected textures %v", cfg.Assets.Textures)
	}
	if cfg.Fog.Color != [3]float32{0.1, 0.2, 0.3} {
		t.Errorf("unexpected fog color %v", cfg.Fog.Color)
	}
	if !cfg.Graphics.VSync {
		t.Error("expected vsync default to survive")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, map[string]string{
		"WEBGAME_LOG_LEVEL":  "warn",
		"WEBGAME_ASSET_DIRS": "a,b",
		"WEBGAME_ASSET_URL":  "http://localhost:8080",
		"WEBGAME_LOAD_QUOTA": "16",
		"WEBGAME_FOG":        "false",
		"WEBGAME_WIDTH":      "",
		"OTHER_WIDTH":        "10",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Logging.Level != "warn" {
		t.Errorf("expected log level warn, got %s", cfg.Logging.Level)
	}
	if len(cfg.Assets.Dirs) != 2 || cfg.Assets.Dirs[0] != "a" {
		t.Errorf("expected dirs [a b], got %v", cfg.Assets.Dirs)
	}
	if cfg.Assets.BaseURL != "http://localhost:8080" {
		t.Errorf("unexpected base url %s", cfg.Assets.BaseURL)
	}
	if cfg.Assets.LoadQuota != 16 {
		t.Errorf("expected quota 16, got %d", cfg.Assets.LoadQuota)
	}
	if cfg.Fog.Enabled {
		t.Error("expected fog disabled")
	}
	if cfg.Graphics.Width != 1280 {
		t.Errorf("empty value must not override width, got %d", cfg.Graphics.Width)
	}
}

func TestApplyEnvInvalid(t *testing.T) {
	cfg := Default()
	err := applyEnv(cfg, map[string]string{
		"WEBGAME_WIDTH": "wide",
		"WEBGAME_VSYNC": "maybe",
	})
	if err == nil {
		t.Fatal("expected error for malformed values")
	}
	if !strings.Contains(err.Error(), "WEBGAME_WIDTH") || !strings.Contains(err.Error(), "WEBGAME_VSYNC") {
		t.Errorf("error should name both keys: %v", err)
	}
}

func TestOverride(t *testing.T) {
	cfg := Default()
	err := cfg.Override(map[string]string{
		"asset_url": "https://cdn.example.com/assets",
		"textures":  "grass.png,stone.png",
		"Fog":       "0",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Assets.BaseURL != "https://cdn.example.com/assets" {
		t.Errorf("unexpected base url %s", cfg.Assets.BaseURL)
	}
	if len(cfg.Assets.Textures) != 2 || cfg.Assets.Textures[1] != "stone.png" {
		t.Errorf("expected two textures, got %v", cfg.Assets.Textures)
	}
	if cfg.Fog.Enabled {
		t.Error("expected fog disabled")
	}

	if err := cfg.Override(map[string]string{"quota": "x", "load_quota": "x"}); err == nil {
		t.Error("expected error for malformed quota")
	}
}

func TestReadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "WEBGAME_LOG_LEVEL=debug\nWEBGAME_LOAD_QUOTA=3\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write .env: %v", err)
	}
	t.Setenv("WEBGAME_LOAD_QUOTA", "9")

	env, err := readEnv(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if env["WEBGAME_LOG_LEVEL"] != "debug" {
		t.Errorf("expected level from .env, got %q", env["WEBGAME_LOG_LEVEL"])
	}
	if env["WEBGAME_LOAD_QUOTA"] != "9" {
		t.Errorf("process environment should win, got %q", env["WEBGAME_LOAD_QUOTA"])
	}

	if _, err := readEnv(filepath.Join(dir, "missing.env")); err != nil {
		t.Errorf("missing .env should not be an error: %v", err)
	}
}

func TestLoadFromFileInvalid(t *testing.T) {
	// Create temporary config file with invalid YAML
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "invalid.yaml")

	invalidYAML := `
graphics:
  width: not a number
  invalid syntax here
`

	if err := os.WriteFile(configPath, []byte(invalidYAML), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Try to load - should error
	cfg := Default()
	err := loadFromFile(cfg, configPath)
	if err == nil {
		t.Error("expected error loading invalid YAML, got nil")
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	cfg := Default()
	err := loadFromFile(cfg, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error loading missing file, got nil")
	}
}

func TestConfigDir(t *testing.T) {
	dir := ConfigDir()

	// Just verify it returns a non-empty path
	// Actual path depends on OS
	if dir == "" {
		t.Error("ConfigDir returned empty string")
	}

	// Verify path is absolute
	if !filepath.IsAbs(dir) {
		t.Errorf("ConfigDir should return absolute path, got %s", dir)
	}
}

func TestFindConfigFile(t *testing.T) {
	// Save current directory
	origDir, _ := os.Getwd()
	defer os.Chdir(origDir)

	// Create temp directory and change to it
	tmpDir := t.TempDir()
	os.Chdir(tmpDir)

	// No config file exists - should return empty
	path := findConfigFile()
	if path != "" {
		t.Errorf("expected empty path when no config exists, got %s", path)
	}

	// Create config.yaml in current directory
	configPath := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, []byte("graphics:\n  width: 800\n"), 0644); err != nil {
		t.Fatalf("failed to create test config: %v", err)
	}

	// Should find it now
	path = findConfigFile()
	if path == "" {
		t.Error("expected to find config.yaml in current directory")
	}
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name     string
		setup    func()
		verify   func(*Config) error
		teardown func()
	}{
		{
			name: "debug flag",
			setup: func() {
				*flagDebug = true
			},
			verify: func(cfg *Config) error {
				if cfg.Logging.Level != "debug" {
					t.Errorf("expected log level 'debug', got %s", cfg.Logging.Level)
				}
				if !cfg.Graphics.DumpCommands {
					t.Error("expected command dumps to be enabled with debug flag")
				}
				return nil
			},
			teardown: func() {
				*flagDebug = false
			},
		},
		{
			name: "asset flags",
			setup: func() {
				*flagAssets = "/srv/assets"
				*flagAssetURL = "https://cdn.example.com"
				*flagQuota = 12
			},
			verify: func(cfg *Config) error {
				if len(cfg.Assets.Dirs) != 1 || cfg.Assets.Dirs[0] != "/srv/assets" {
					t.Errorf("expected dirs [/srv/assets], got %v", cfg.Assets.Dirs)
				}
				if cfg.Assets.BaseURL != "https://cdn.example.com" {
					t.Errorf("unexpected base url %s", cfg.Assets.BaseURL)
				}
				if cfg.Assets.LoadQuota != 12 {
					t.Errorf("expected quota 12, got %d", cfg.Assets.LoadQuota)
				}
				return nil
			},
			teardown: func() {
				*flagAssets = ""
				*flagAssetURL = ""
				*flagQuota = 0
			},
		},
		{
			name: "windowed flag",
			setup: func() {
				*flagWindowed = true
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be false with windowed flag")
				}
				return nil
			},
			teardown: func() {
				*flagWindowed = false
			},
		},
		{
			name: "fullscreen flag",
			setup: func() {
				*flagFullscreen = true
			},
			verify: func(cfg *Config) error {
				if !cfg.Graphics.Fullscreen {
					t.Error("expected fullscreen to be true with fullscreen flag")
				}
				return nil
			},
			teardown: func() {
				*flagFullscreen = false
			},
		},
		{
			name: "width and height flags",
			setup: func() {
				*flagWidth = 2560
				*flagHeight = 1440
			},
			verify: func(cfg *Config) error {
				if cfg.Graphics.Width != 2560 {
					t.Errorf("expected width 2560, got %d", cfg.Graphics.Width)
				}
				if cfg.Graphics.Height != 1440 {
					t.Errorf("expected height 1440, got %d", cfg.Graphics.Height)
				}
				return nil
			},
			teardown: func() {
				*flagWidth = 0
				*flagHeight = 0
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			tt.setup()
			defer tt.teardown()

			// Apply flags to default config
			cfg := Default()
			applyFlags(cfg)

			// Verify
			tt.verify(cfg)
		})
	}
}

func TestLoadPriority(t *testing.T) {
	// Create temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	yamlContent := `
graphics:
  width: 1600
  height: 900
`

	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	// Environment overrides the file, flags override the environment
	t.Setenv("WEBGAME_WIDTH", "1700")
	t.Setenv("WEBGAME_LOAD_QUOTA", "7")

	// Set flag to override config file
	*flagConfig = configPath
	*flagWidth = 1920
	defer func() {
		*flagConfig = ""
		*flagWidth = 0
	}()

	// Load config
	cfg, err := Load()
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	// Width should be from flag (1920), not file (1600)
	if cfg.Graphics.Width != 1920 {
		t.Errorf("expected width 1920 from flag, got %d", cfg.Graphics.Width)
	}

	// Height should be from file (900) since no flag override
	if cfg.Graphics.Height != 900 {
		t.Errorf("expected height 900 from file, got %d", cfg.Graphics.Height)
	}

	// Quota comes from the environment
	if cfg.Assets.LoadQuota != 7 {
		t.Errorf("expected quota 7 from environment, got %d", cfg.Assets.LoadQuota)
	}
}

func TestSaveToRoundTrip(t *testing.T) {
	for _, name := range []string{"out/config.yaml", "out/config.toml"} {
		t.Run(filepath.Ext(name), func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)

			cfg := Default()
			cfg.Assets.BaseURL = "https://cdn.example.com"
			cfg.Fog.Color = [3]float32{1, 0.5, 0.25}
			if err := cfg.SaveTo(path); err != nil {
				t.Fatalf("failed to save: %v", err)
			}

			loaded := &Config{}
			if err := loadFromFile(loaded, path); err != nil {
				t.Fatalf("failed to reload: %v", err)
			}
			if loaded.Assets.BaseURL != cfg.Assets.BaseURL {
				t.Errorf("base url lost: %q", loaded.Assets.BaseURL)
			}
			if loaded.Fog.Color != cfg.Fog.Color {
				t.Errorf("fog color lost: %v", loaded.Fog.Color)
			}
		})
	}
}
