// Package paths provides centralized path handling for oxidizr.
// It implements XDG Base Directory specification compliance and
// provides a consistent API for all path operations in the codebase.
package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvConfigFile points at an explicit configuration file,
	// overriding the search path entirely
	EnvConfigFile = "OXIDIZR_CONFIG"

	// EnvStateDir overrides the XDG state directory for oxidizr
	EnvStateDir = "OXIDIZR_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Default directories and files
const (
	// AppDirName is the directory name for oxidizr-specific files
	AppDirName = "oxidizr"

	// SystemConfigDir is where a machine-wide config lives. oxidizr
	// mutates system binaries, so the system location is checked before
	// the per-user one.
	SystemConfigDir = "/etc/oxidizr"

	// ConfigBaseName is the configuration file name without extension
	ConfigBaseName = "config"

	// LogFileName is the name of the log file
	LogFileName = "oxidizr.log"
)

// Paths provides centralized path management for oxidizr
type Paths struct {
	configDir string
	stateDir  string
}

// New creates a new Paths instance, respecting environment overrides.
func New() *Paths {
	p := &Paths{}

	p.configDir = filepath.Join(xdg.ConfigHome, AppDirName)

	if stateDir := os.Getenv(EnvStateDir); stateDir != "" {
		p.stateDir = expandHome(stateDir)
	} else {
		p.stateDir = filepath.Join(xdg.StateHome, AppDirName)
	}

	return p
}

// ConfigDir returns the per-user config directory for oxidizr
func (p *Paths) ConfigDir() string {
	return p.configDir
}

// StateDir returns the directory for state files (logs, run records)
func (p *Paths) StateDir() string {
	return p.stateDir
}

// LogFilePath returns the path to the log file
func (p *Paths) LogFilePath() string {
	return filepath.Join(p.stateDir, LogFileName)
}

// ConfigFileCandidates returns the ordered list of config file paths to
// try. An explicit OXIDIZR_CONFIG short-circuits the search; otherwise
// the system location is consulted before the per-user one, TOML before
// YAML at each location.
func (p *Paths) ConfigFileCandidates() []string {
	if explicit := os.Getenv(EnvConfigFile); explicit != "" {
		return []string{expandHome(explicit)}
	}

	var candidates []string
	for _, dir := range []string{SystemConfigDir, p.configDir} {
		for _, ext := range []string{".toml", ".yaml", ".yml"} {
			candidates = append(candidates, filepath.Join(dir, ConfigBaseName+ext))
		}
	}
	return candidates
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				return path
			}
		}

		if len(path) == 1 {
			return homeDir
		}

		if path[1] == '/' || path[1] == filepath.Separator {
			return filepath.Join(homeDir, path[2:])
		}

		// ~something (not the user's home)
		return path
	}

	return path
}
