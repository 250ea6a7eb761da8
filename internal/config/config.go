// Package config loads the optional .devflake.yaml sitting at the target
// root. Every field has a default, so a missing file is the common case.
package config

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/goccy/go-yaml"

	"github.com/indaco/devflake/internal/core"
	"github.com/indaco/devflake/internal/flake"
	"github.com/indaco/devflake/internal/resolve"
	"github.com/indaco/devflake/internal/scanner"
)

// FileName is the config file looked up at the target root.
const FileName = ".devflake.yaml"

// Config is the on-disk configuration. Zero values mean "use the default".
type Config struct {
	// Scope is the default scan scope when the flag is not given.
	Scope string `yaml:"scope,omitempty"`

	// Excludes are extra directory patterns skipped during recursive
	// scans, on top of the built-in VCS/cache list.
	Excludes []string `yaml:"excludes,omitempty"`

	// Precedence reorders the signal tiers. It must name all of
	// lockfile, manifest, and heuristic exactly once.
	Precedence []string `yaml:"precedence,omitempty"`

	// Channel is the nixpkgs branch referenced by the generated flake.
	Channel string `yaml:"channel,omitempty"`

	// MaxDepth caps recursive scan depth.
	MaxDepth int `yaml:"max-depth,omitempty"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Scope:   string(scanner.ScopeRoot),
		Channel: flake.DefaultChannel,
	}
}

// Load reads the config file at root, or path directly when path is not
// empty. A missing default file falls back to Default(); a missing explicit
// path is an error.
func Load(ctx context.Context, fsys core.FileSystem, root, path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = filepath.Join(root, FileName)
	}

	data, err := fsys.ReadFile(ctx, path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config %q: %w", path, err)
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return Default(), nil
	}

	var cfg Config
	decoder := yaml.NewDecoder(bytes.NewReader(data), yaml.Strict())
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Scope == "" {
		cfg.Scope = string(scanner.ScopeRoot)
	}
	if cfg.Channel == "" {
		cfg.Channel = flake.DefaultChannel
	}
}

func validate(cfg *Config) error {
	if _, err := scanner.ParseScope(cfg.Scope); err != nil {
		return err
	}
	if _, err := resolve.ParsePrecedence(cfg.Precedence); err != nil {
		return err
	}
	if cfg.MaxDepth < 0 {
		return fmt.Errorf("max-depth must not be negative")
	}
	return nil
}
