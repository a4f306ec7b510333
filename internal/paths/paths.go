// Package paths resolves configuration directories, project directories and
// project database file locations.
package paths

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DatabaseExt is the file extension of a project database.
const DatabaseExt = ".db"

// ErrInvalidDatabasePath is returned for paths the SQLite DSN cannot carry.
var ErrInvalidDatabasePath = errors.New("invalid database path")

// appDirName is the per-user directory name under the platform config root.
const appDirName = "gwen2d"

// Environment variable names for directory overrides.
const (
	EnvConfigDir  = "GWEN2D_CONFIG_DIR"
	EnvProjectDir = "GWEN2D_PROJECT_DIR"
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
// Linux:   $XDG_CONFIG_HOME/gwen2d (fallback ~/.config/gwen2d)
// macOS:   ~/Library/Application Support/gwen2d
// Windows: %APPDATA%/gwen2d
func DefaultConfigDir() (string, error) {
	switch runtime.GOOS {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := platformDir.homeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".config", appDirName), nil
	default:
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
}

// DefaultProjectDir returns the directory new projects are created in when
// nothing else is configured: the user's home directory.
func DefaultProjectDir() (string, error) {
	return platformDir.homeDir()
}

// ResolveConfigDir returns the configuration directory following the precedence
// chain: flag > GWEN2D_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveProjectDir returns the directory for new projects following the
// precedence chain: flag > config.yaml project_dir > GWEN2D_PROJECT_DIR env >
// DefaultProjectDir().
func ResolveProjectDir(flag, configYAMLValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	if env := os.Getenv(EnvProjectDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultProjectDir()
}

// ProjectPath joins a directory and a project name into a database path.
func ProjectPath(dir, name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("project name must not be empty")
	}
	return DatabasePath(filepath.Join(dir, name))
}

// DatabasePath normalizes path to an absolute database file path. The
// DatabaseExt extension is appended unless path already carries it. Paths
// containing '?' or '#' are rejected.
func DatabasePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", fmt.Errorf("database path must not be empty")
	}
	if strings.ContainsAny(path, "?#") {
		return "", fmt.Errorf("%w: %q", ErrInvalidDatabasePath, path)
	}
	if filepath.Ext(path) != DatabaseExt {
		path += DatabaseExt
	}
	return filepath.Abs(path)
}

// ProjectName returns the project name encoded in a database path: the base
// name without its extension.
func ProjectName(dbPath string) string {
	base := filepath.Base(dbPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
