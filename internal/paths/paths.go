// Package paths resolves configuration and data directory locations for the
// grid CLI.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appName is the directory created under the platform config and data roots.
const appName = "grid"

// CWD-relative directory names.
const (
	DefaultConfigDirName = ".grid"
	DefaultDataDirName   = ".grid-db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "GRID_CONFIG_DIR"
	EnvDataDir   = "GRID_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific default configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/grid (fallback ~/.config/grid)
// macOS:   ~/Library/Application Support/grid
// Windows: %APPDATA%/grid
func DefaultConfigDir() (string, error) {
	return platformAppDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific default data directory.
//
// Linux:   $XDG_DATA_HOME/grid (fallback ~/.local/share/grid)
// macOS:   ~/Library/Application Support/grid
// Windows: %APPDATA%/grid
func DefaultDataDir() (string, error) {
	return platformAppDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformAppDir resolves the XDG directory named by xdgEnv on Linux, falling
// back to homeFallback under the home directory. Other platforms share
// os.UserConfigDir.
func platformAppDir(xdgEnv, homeFallback string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, appName), nil
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > GRID_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > configYAMLValue > GRID_DATA_DIR env > $(CWD)/.grid-db.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	for _, dir := range []string{flag, configYAMLValue, os.Getenv(EnvDataDir)} {
		if dir != "" {
			return filepath.Abs(dir)
		}
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
