// Package paths resolves the configuration and data directories. Each
// resolver follows flag > environment > default, and every returned path is
// absolute.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under platform config and data roots.
const AppName = "specbook"

// DefaultDataDirName is the CWD-relative data directory used when nothing
// overrides it. Keeping it next to the work lets a spec book live in the
// same repository as the product it tests.
const DefaultDataDirName = ".specbook"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "SPECBOOK_CONFIG_DIR"
	EnvDataDir   = "SPECBOOK_DATA_DIR"
)

// platformDir holds platform lookups that tests override.
var platformDir = struct {
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	getwd         func() (string, error)
}{
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	getwd:         os.Getwd,
}

// linuxRoot returns $xdgVar, or ~/fallback... when it is unset.
func linuxRoot(xdgVar string, fallback ...string) (string, error) {
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return xdg, nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/specbook (fallback ~/.config/specbook)
// macOS:   ~/Library/Application Support/specbook
// Windows: %APPDATA%/specbook
func DefaultConfigDir() (string, error) {
	var (
		root string
		err  error
	)
	if runtime.GOOS == "linux" {
		root, err = linuxRoot("XDG_CONFIG_HOME", ".config")
	} else {
		root, err = platformDir.userConfigDir()
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

// PlatformDataDir returns the platform data directory. It is not the
// default data location; `specbook init --global` uses it.
//
// Linux:   $XDG_DATA_HOME/specbook (fallback ~/.local/share/specbook)
// macOS:   ~/Library/Application Support/specbook
// Windows: %APPDATA%/specbook
func PlatformDataDir() (string, error) {
	var (
		root string
		err  error
	)
	if runtime.GOOS == "linux" {
		root, err = linuxRoot("XDG_DATA_HOME", ".local", "share")
	} else {
		root, err = platformDir.userConfigDir()
	}
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AppName), nil
}

// ResolveConfigDir returns flag, else $SPECBOOK_CONFIG_DIR, else
// DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir returns flag, else the data_dir value from config.yaml,
// else $SPECBOOK_DATA_DIR, else ./.specbook.
func ResolveDataDir(flag, configValue string) (string, error) {
	for _, candidate := range []string{flag, configValue, os.Getenv(EnvDataDir)} {
		if candidate != "" {
			return filepath.Abs(candidate)
		}
	}
	cwd, err := platformDir.getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}
