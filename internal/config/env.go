package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const envPrefix = "WEBGAME_"

// applyEnv applies WEBGAME_* overrides.
func applyEnv(cfg *Config, env map[string]string) error {
	var errs []string
	get := func(key string) (string, bool) {
		v, ok := env[envPrefix+key]
		return v, ok && v != ""
	}
	setInt := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s=%q: not an integer", envPrefix, key, v))
				return
			}
			*dst = n
		}
	}
	setBool := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s%s=%q: not a boolean", envPrefix, key, v))
				return
			}
			*dst = b
		}
	}

	if v, ok := get("LOG_LEVEL"); ok {
		cfg.Logging.Level = v
	}
	if v, ok := get("LOG_FILE"); ok {
		cfg.Logging.LogFile = v
	}
	if v, ok := get("ASSET_DIRS"); ok {
		cfg.Assets.Dirs = strings.Split(v, ",")
	}
	if v, ok := get("ASSET_URL"); ok {
		cfg.Assets.BaseURL = v
	}
	if v, ok := get("TEXTURES"); ok {
		cfg.Assets.Textures = strings.Split(v, ",")
	}
	setInt("ASSET_TIMEOUT_MS", &cfg.Assets.TimeoutMs)
	setInt("LOAD_QUOTA", &cfg.Assets.LoadQuota)
	setInt("WIDTH", &cfg.Graphics.Width)
	setInt("HEIGHT", &cfg.Graphics.Height)
	setBool("FULLSCREEN", &cfg.Graphics.Fullscreen)
	setBool("VSYNC", &cfg.Graphics.VSync)
	setBool("FOG", &cfg.Fog.Enabled)

	if len(errs) > 0 {
		return fmt.Errorf("environment: %s", strings.Join(errs, "; "))
	}
	return nil
}

// Override applies settings keyed without the WEBGAME_ prefix, in any case.
// Hosts with no process environment, such as the browser build reading its
// URL query, use it in place of Load.
func (c *Config) Override(values map[string]string) error {
	env := make(map[string]string, len(values))
	for k, v := range values {
		env[envPrefix+strings.ToUpper(k)] = v
	}
	return applyEnv(c, env)
}

// readEnv returns the process environment overlaid on the given dotenv file.
// Real environment variables win; a missing file is not an error.
func readEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}
	if env == nil {
		env = make(map[string]string)
	}

	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && strings.HasPrefix(k, envPrefix) {
			env[k] = v
		}
	}
	return env, nil
}
