// Package paths resolves the haldai configuration, data, and log file
// locations.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// appDirName is the per-user directory under the platform config and data
// roots.
const appDirName = "haldai"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "HALDAI_CONFIG_DIR"
	EnvDataDir   = "HALDAI_DATA_DIR"
)

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/haldai (fallback ~/.config/haldai)
// macOS:   ~/Library/Application Support/haldai
// Windows: %APPDATA%/haldai
func DefaultConfigDir() (string, error) {
	return platformDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory. Outside Linux it is
// the same as the config directory.
//
// Linux:   $XDG_DATA_HOME/haldai (fallback ~/.local/share/haldai)
func DefaultDataDir() (string, error) {
	return platformDir("XDG_DATA_HOME", ".local", "share")
}

// platformDir joins appDirName onto the XDG root named by xdgEnv on Linux,
// falling back to home/linuxRel..., and onto os.UserConfigDir elsewhere.
func platformDir(xdgEnv string, linuxRel ...string) (string, error) {
	if runtime.GOOS != "linux" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, appDirName), nil
	}
	if xdg := os.Getenv(xdgEnv); xdg != "" {
		return filepath.Join(xdg, appDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append(append([]string{home}, linuxRel...), appDirName)...), nil
}

// ResolveConfigDir returns the configuration directory:
// flag > HALDAI_CONFIG_DIR > DefaultConfigDir.
func ResolveConfigDir(flag string) (string, error) {
	return firstAbs(DefaultConfigDir, flag, os.Getenv(EnvConfigDir))
}

// ResolveDataDir returns the data directory:
// flag > config.yaml data_dir > HALDAI_DATA_DIR > DefaultDataDir.
// The store is per user, so there is no working-directory fallback.
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return firstAbs(DefaultDataDir, flag, configYAMLValue, os.Getenv(EnvDataDir))
}

// firstAbs returns the first non-empty candidate made absolute, or the
// result of fallback when all are empty.
func firstAbs(fallback func() (string, error), candidates ...string) (string, error) {
	for _, c := range candidates {
		if c != "" {
			return filepath.Abs(c)
		}
	}
	return fallback()
}

// ResolveLogFile returns the log file path for a configured value. An empty
// value disables file logging. Relative paths are taken relative to dataDir.
func ResolveLogFile(value, dataDir string) string {
	if value == "" {
		return ""
	}
	if filepath.IsAbs(value) {
		return value
	}
	return filepath.Join(dataDir, value)
}
