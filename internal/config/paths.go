// Package config provides configuration management for SC Companion.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

const (
	// appDirName is the per-user folder under %APPDATA% / %LOCALAPPDATA% on Windows.
	appDirName = "SC Companion"

	// unixDirName is the folder under the XDG config directory on Unix.
	unixDirName = "sc-companion"

	// ConfigFileName is the INI file holding companion settings.
	ConfigFileName = "companion.conf"
)

// ConfigDirectory returns the per-user configuration directory.
//
// Locations:
//   - Windows: %APPDATA%\SC Companion
//   - Unix: ~/.config/sc-companion
func ConfigDirectory() (string, error) {
	if runtime.GOOS == "windows" {
		appData, err := RoamingAppData()
		if err != nil {
			return "", err
		}
		return filepath.Join(appData, appDirName), nil
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, unixDirName), nil
}

// DefaultConfigPath returns the default path for companion.conf.
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDirectory()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName), nil
}

// RoamingAppData returns %APPDATA%, falling back to %USERPROFILE%\AppData\Roaming.
func RoamingAppData() (string, error) {
	if appData := os.Getenv("APPDATA"); appData != "" {
		return appData, nil
	}
	userProfile := os.Getenv("USERPROFILE")
	if userProfile == "" {
		return "", errors.New("neither APPDATA nor USERPROFILE environment variable set")
	}
	return filepath.Join(userProfile, "AppData", "Roaming"), nil
}

// LogDirectory returns the directory for the companion's own log files.
//
// Locations:
//   - Windows: %LOCALAPPDATA%\SC Companion\logs
//   - Unix: ~/.config/sc-companion/logs
func LogDirectory() string {
	if runtime.GOOS == "windows" {
		localAppData := os.Getenv("LOCALAPPDATA")
		if localAppData == "" {
			homeDir, err := os.UserHomeDir()
			if err != nil {
				return filepath.Join(os.TempDir(), "sc-companion-logs")
			}
			localAppData = filepath.Join(homeDir, "AppData", "Local")
		}
		return filepath.Join(localAppData, appDirName, "logs")
	}

	dir, err := ConfigDirectory()
	if err != nil {
		return filepath.Join(os.TempDir(), "sc-companion-logs")
	}
	return filepath.Join(dir, "logs")
}
