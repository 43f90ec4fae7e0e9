// Package project loads the optional brandy.toml configuration file found
// in the working directory or any parent. Command-line flags override it.
package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config mirrors brandy.toml.
type Config struct {
	Passes PassesConfig `toml:"passes"`
	Output OutputConfig `toml:"output"`
}

// PassesConfig toggles individual pipeline passes. All default to enabled.
type PassesConfig struct {
	SSA      *bool `toml:"ssa"`
	CSE      *bool `toml:"cse"`
	CopyProp *bool `toml:"copyprop"`
	DIE      *bool `toml:"die"`
}

// OutputConfig configures auxiliary output.
type OutputConfig struct {
	DotDir string `toml:"dot_dir"`
	Color  string `toml:"color"`
}

// Enabled resolves a pass toggle with its default.
func Enabled(v *bool) bool {
	return v == nil || *v
}

// Find walks from startDir up to the filesystem root looking for
// brandy.toml.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for prev := ""; dir != prev; prev, dir = dir, filepath.Dir(dir) {
		candidate := filepath.Join(dir, "brandy.toml")
		switch _, err := os.Stat(candidate); {
		case err == nil:
			return candidate, true, nil
		case !errors.Is(err, os.ErrNotExist):
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
	}
	return "", false, nil
}

// Load reads and validates a config file.
func Load(path string) (Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	switch cfg.Output.Color {
	case "", "auto", "on", "off":
	default:
		return Config{}, fmt.Errorf("%s: [output].color must be auto, on or off", path)
	}
	return cfg, nil
}

// LoadFromDir finds and loads the nearest config; a missing file yields the
// zero config.
func LoadFromDir(startDir string) (Config, error) {
	path, ok, err := Find(startDir)
	if err != nil || !ok {
		return Config{}, err
	}
	return Load(path)
}
