// Package paths resolves the configuration directory and the home directory
// under which the store, backups, and exports live.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the directory created under platform config/data roots.
const appDirName = "livraria"

// Default subdirectories of the home directory.
const (
	DataDirName   = "data"
	BackupDirName = "backups"
	ExportDirName = "exports"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "LIVRARIA_CONFIG_DIR"
	EnvHome      = "LIVRARIA_HOME"
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
// Linux:   $XDG_CONFIG_HOME/livraria (fallback ~/.config/livraria)
// macOS:   ~/Library/Application Support/livraria
// Windows: %APPDATA%/livraria
func DefaultConfigDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// DefaultHomeDir returns the platform-specific default home directory.
//
// Linux:   $XDG_DATA_HOME/livraria (fallback ~/.local/share/livraria)
// macOS:   ~/Library/Application Support/livraria
// Windows: %APPDATA%/livraria
func DefaultHomeDir() (string, error) {
	if runtime.GOOS == "linux" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
	dir, err := platformDir.userConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appDirName), nil
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > LIVRARIA_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveHomeDir returns the home directory following the precedence chain:
// flag > LIVRARIA_HOME env > DefaultHomeDir().
func ResolveHomeDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvHome); env != "" {
		return filepath.Abs(env)
	}
	return DefaultHomeDir()
}

// ResolveDir returns configValue made absolute, or home/sub when the config
// file leaves it unset.
func ResolveDir(configValue, home, sub string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(home, sub), nil
}

// EnsureDirs creates every directory in dirs (and parents) if missing.
func EnsureDirs(dirs ...string) error {
	for _, d := range dirs {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", d, err)
		}
	}
	return nil
}
