// Package config loads golox's ambient settings: REPL history path,
// whether to color diagnostics, and the interpreter's call-depth
// guard. None of this affects language semantics; it configures the
// process around it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config is the resolved set of ambient settings, after applying the
// flag > environment > file > default precedence.
type Config struct {
	HistoryFile  string `yaml:"historyFile"`
	Color        bool   `yaml:"color"`
	MaxCallDepth int    `yaml:"maxCallDepth"`
}

// Default returns the built-in defaults, used when no file, env var,
// or flag overrides them.
func Default() Config {
	home, _ := os.UserHomeDir()
	return Config{
		HistoryFile:  filepath.Join(home, ".golox_history"),
		Color:        true,
		MaxCallDepth: 255,
	}
}

// Load resolves a Config by starting from Default, applying the first
// readable config file among ./.golox.yaml and $HOME/.golox.yaml, then
// applying environment variable overrides. Flags are applied by the
// caller afterward, since cobra owns flag parsing.
func Load() (Config, error) {
	cfg := Default()

	for _, path := range candidatePaths() {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing %s: %w", path, err)
		}
		break
	}

	applyEnv(&cfg)
	return cfg, nil
}

func candidatePaths() []string {
	var paths []string
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".golox.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".golox.yaml"))
	}
	return paths
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("GOLOX_HISTORY_FILE"); v != "" {
		cfg.HistoryFile = v
	}
	if v := os.Getenv("GOLOX_NO_COLOR"); v != "" {
		cfg.Color = false
	}
	if v := os.Getenv("GOLOX_MAX_CALL_DEPTH"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.MaxCallDepth = n
		}
	}
}
