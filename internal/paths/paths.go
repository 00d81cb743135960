// Package paths resolves the save, configuration, and data directories.
// Saves and config.yaml share the per-OS configuration directory; the score
// history database lives in the data directory.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the directory name used under every platform base directory.
const AppName = "funfair"

// File names inside the save directory.
const (
	SaveFileName   = "save.json"
	BackupSuffix   = ".backup"
	ConfigFileName = "config.yaml"
	HistoryDBName  = "history.db"
)

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "FUNFAIR_CONFIG_DIR"
	EnvSaveDir   = "FUNFAIR_SAVE_DIR"
	EnvDataDir   = "FUNFAIR_DATA_DIR"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
	tempDir       func() string
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
	tempDir:       os.TempDir,
}

// DefaultConfigDir returns the platform-specific configuration directory,
// which also holds the save file.
//
// Linux:   $XDG_CONFIG_HOME/funfair (fallback ~/.config/funfair)
// macOS:   ~/Library/Application Support/funfair
// Windows: %APPDATA%/funfair
//
// When the home directory cannot be resolved (headless CI, service accounts)
// the result falls back to $TMPDIR/funfair.
func DefaultConfigDir() string {
	switch platformDir.goos {
	case "linux":
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, err := platformDir.homeDir()
		if err != nil || home == "" {
			return fallbackDir()
		}
		return filepath.Join(home, ".config", AppName)
	default:
		// os.UserConfigDir returns ~/Library/Application Support on macOS
		// and %APPDATA% on Windows.
		dir, err := platformDir.userConfigDir()
		if err != nil || dir == "" {
			return fallbackDir()
		}
		return filepath.Join(dir, AppName)
	}
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/funfair (fallback ~/.local/share/funfair)
// macOS:   ~/Library/Application Support/funfair
// Windows: %APPDATA%/funfair
func DefaultDataDir() string {
	switch platformDir.goos {
	case "linux":
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, AppName)
		}
		home, err := platformDir.homeDir()
		if err != nil || home == "" {
			return fallbackDir()
		}
		return filepath.Join(home, ".local", "share", AppName)
	default:
		return DefaultConfigDir()
	}
}

func fallbackDir() string {
	return filepath.Join(platformDir.tempDir(), AppName)
}

// ResolveConfigDir returns the configuration directory following the
// precedence chain: flag > FUNFAIR_CONFIG_DIR env > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir(), nil
}

// ResolveSaveDir returns the save directory following the precedence chain:
// flag > FUNFAIR_SAVE_DIR env > config.yaml value > configDir.
func ResolveSaveDir(flag, configYAMLValue, configDir string) (string, error) {
	return resolve(flag, EnvSaveDir, configYAMLValue, configDir)
}

// ResolveDataDir returns the data directory following the precedence chain:
// flag > FUNFAIR_DATA_DIR env > config.yaml value > DefaultDataDir().
func ResolveDataDir(flag, configYAMLValue string) (string, error) {
	return resolve(flag, EnvDataDir, configYAMLValue, DefaultDataDir())
}

func resolve(flag, envName, configYAMLValue, fallback string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(envName); env != "" {
		return filepath.Abs(env)
	}
	if configYAMLValue != "" {
		return filepath.Abs(configYAMLValue)
	}
	return fallback, nil
}

// SaveFile returns the primary save file path inside dir.
func SaveFile(dir string) string {
	return filepath.Join(dir, SaveFileName)
}

// BackupFile returns the backup save file path inside dir.
func BackupFile(dir string) string {
	return SaveFile(dir) + BackupSuffix
}
