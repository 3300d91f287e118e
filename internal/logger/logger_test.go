package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initFile routes logging to a file only and returns its path.
func initFile(t *testing.T, level string, cfg FileConfig) string {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = filepath.Join(t.TempDir(), "engine.log")
	}
	if err := InitWithFileConfig(level, cfg, false); err != nil {
		t.Fatalf("failed to init logger: %v", err)
	}
	return cfg.Path
}

func readLog(t *testing.T, path string) string {
	t.Helper()
	Sync()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	return string(content)
}

func TestLogRotation(t *testing.T) {
	dir := t.TempDir()
	// 1MB is the smallest size lumberjack rotates at.
	initFile(t, "debug", FileConfig{Path: filepath.Join(dir, "frames.log"), MaxSizeMB: 1, MaxBackups: 2, MaxAgeDays: 1})

	payload := strings.Repeat("x", 200)
	for i := 0; i < 15000; i++ {
		Sugar.Infof("frame %d: %s", i, payload)
	}
	Sync()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("failed to read log dir: %v", err)
	}

	rotated := 0
	for _, e := range entries {
		name := e.Name()
		if name == "frames.log" || !strings.HasPrefix(name, "frames") {
			continue
		}
		rotated++
		// lumberjack appends a timestamp: frames-2006-01-02T15-04-05.000.log
		if !strings.Contains(name, "-20") {
			t.Errorf("rotated file %s has no timestamp", name)
		}
	}
	if rotated == 0 {
		t.Errorf("expected a rotated file, found %d entries", len(entries))
	}
}

func TestLogLevels(t *testing.T) {
	all := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	tests := []struct {
		level string
		first int // index into all of the lowest level written
	}{
		{"debug", 0},
		{"info", 1},
		{"", 1},
		{"bogus", 1},
		{"warn", 2},
		{"error", 3},
	}

	for _, tt := range tests {
		t.Run("level="+tt.level, func(t *testing.T) {
			path := initFile(t, tt.level, FileConfig{MaxSizeMB: 10})

			Debug("debug message")
			Info("info message")
			Warn("warn message")
			Error("error message")

			out := readLog(t, path)
			for i, lvl := range all {
				if got, want := strings.Contains(out, lvl), i >= tt.first; got != want {
					t.Errorf("%s present = %v, want %v", lvl, got, want)
				}
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	if got := parseLevel("warn"); got != zapcore.WarnLevel {
		t.Errorf("parseLevel(warn) = %v", got)
	}
	if got := parseLevel("verbose"); got != zapcore.InfoLevel {
		t.Errorf("unknown levels should fall back to info, got %v", got)
	}
}

func TestDefaultFileConfig(t *testing.T) {
	cfg := DefaultFileConfig("webgame.log")

	want := FileConfig{Path: "webgame.log", MaxSizeMB: 50, MaxBackups: 3, MaxAgeDays: 7, Compress: true}
	if cfg != want {
		t.Errorf("DefaultFileConfig = %+v, want %+v", cfg, want)
	}
}

func TestNamedComponent(t *testing.T) {
	path := initFile(t, "debug", FileConfig{MaxSizeMB: 10})

	Named("cmdbuf").Debug("executed commands", zap.Int("commands", 12))

	line := readLog(t, path)
	for _, want := range []string{"cmdbuf", "executed commands", "12"} {
		if !strings.Contains(line, want) {
			t.Errorf("expected %q in log output, got %q", want, line)
		}
	}
}

func TestLoggingBeforeInitIsSafe(t *testing.T) {
	Log = zap.NewNop()
	Sugar = Log.Sugar()

	Debug("ignored")
	Named("loader").Warn("ignored")
	Sync()
}
