// Package config handles configuration management for oxidizr.
// It supports loading configuration from multiple sources: embedded
// defaults, a TOML or YAML config file, and environment variables.
package config

import (
	_ "embed"
	"errors"
)

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, errors.New("not implemented")
}

// DefaultConfigContent returns the embedded defaults, used by the config
// command to show what the base layer looks like.
func DefaultConfigContent() string {
	return string(defaultConfig)
}

// Settings is the effective oxidizr configuration after all layers are
// merged.
type Settings struct {
	Experiments ExperimentSettings `koanf:"experiments" toml:"experiments"`
	Packages    PackageSettings    `koanf:"packages" toml:"packages"`
}

// ExperimentSettings controls which experiments run when none are selected
// explicitly.
type ExperimentSettings struct {
	Default []string `koanf:"default" toml:"default"`
}

// PackageSettings controls package manager interactions.
type PackageSettings struct {
	UpdateLists bool `koanf:"update_lists" toml:"update_lists"`
}
