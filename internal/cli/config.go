package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileConfig is the YAML suite configuration. Every field has a flag
// equivalent; explicitly set flags win over file values.
type FileConfig struct {
	// Tests is the html5lib-tests checkout root.
	Tests string `yaml:"tests"`
	// Threads is the worker count; 0 means one worker per CPU.
	Threads int `yaml:"threads"`
	// MaxFailures caps the failure detail kept per run (minimum 1).
	MaxFailures int `yaml:"maxFailures"`
	// FailFast stops after the first recorded failure.
	FailFast bool `yaml:"failFast"`
	// Filter keeps only fixture files whose path contains this substring.
	Filter string `yaml:"filter"`
	// DB, when set, records each run into this SQLite database.
	DB string `yaml:"db"`
}

// LoadFileConfig reads and decodes a YAML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var cfg FileConfig
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// defaultTestsRoot is where a plain `htmlconf run` looks for fixtures.
func defaultTestsRoot() string {
	return expandTilde("~/html5lib-tests")
}

// expandTilde resolves a leading "~/" against $HOME. Anything else is
// returned unchanged.
func expandTilde(path string) string {
	if rest, ok := cutTildePrefix(path); ok {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, rest)
		}
	}
	return path
}

func cutTildePrefix(path string) (string, bool) {
	if len(path) >= 2 && path[0] == '~' && path[1] == '/' {
		return path[2:], true
	}
	return "", false
}

func defaultThreads() int {
	n := runtime.NumCPU()
	if n < 1 {
		return 1
	}
	return n
}
