package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/ini.v1"
)

// Environment variables that override companion.conf values.
const (
	EnvDebug       = "SC_COMPANION_DEBUG"
	EnvInstallRoot = "SC_COMPANION_INSTALL_ROOT"
	EnvAppDataDir  = "SC_COMPANION_APPDATA"
	EnvInstanceID  = "SC_COMPANION_INSTANCE_ID"
)

// DefaultInstanceID names the singleton primitives when no override is configured.
const DefaultInstanceID = "sc-companion"

// Config represents companion.conf.
//
// Config file location:
//   - Windows: %APPDATA%\SC Companion\companion.conf
//   - Unix: ~/.config/sc-companion/companion.conf
//
// INI format:
//
//	[app]
//	instance_id = sc-companion
//	debug = false
//	file_logging = true
//
//	[discovery]
//	install_root = D:\Games\Roberts Space Industries
//	appdata_override =
type Config struct {
	App       AppConfig
	Discovery DiscoveryConfig
}

// AppConfig contains process-level settings.
type AppConfig struct {
	// InstanceID names the singleton mutex, pipe and socket. Two builds with
	// different IDs can run side by side.
	InstanceID string `ini:"instance_id"`

	// Debug lowers the log level to debug.
	Debug bool `ini:"debug"`

	// FileLogging writes a rotating log under LogDirectory().
	FileLogging bool `ini:"file_logging"`
}

// DiscoveryConfig contains installation discovery hints.
type DiscoveryConfig struct {
	// InstallRoot is an optional user-chosen installation root, tried before
	// any registry lookup. Empty means no prior configuration.
	InstallRoot string `ini:"install_root"`

	// AppDataOverride replaces %APPDATA% for the default user-data strategy.
	AppDataOverride string `ini:"appdata_override"`
}

// Config validation errors
var (
	ErrMissingInstanceID  = errors.New("instance_id is required")
	ErrInvalidInstanceID  = errors.New("instance_id may only contain letters, digits, '.', '_' and '-'")
	ErrRelativeInstallDir = errors.New("install_root must be an absolute path")
)

var instanceIDPattern = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		App: AppConfig{
			InstanceID:  DefaultInstanceID,
			Debug:       false,
			FileLogging: true,
		},
	}
}

// LoadDotenv loads a .env file sitting next to the executable, if any.
// Values already present in the environment win.
func LoadDotenv() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	envPath := filepath.Join(filepath.Dir(execPath), ".env")
	if _, err := os.Stat(envPath); err != nil {
		return ""
	}
	if err := godotenv.Load(envPath); err != nil {
		return ""
	}
	return envPath
}

// Load loads configuration from companion.conf and applies environment overrides.
// If path is empty, uses the default path.
// If the file doesn't exist, returns defaults and no error.
// If the file exists but is invalid, returns an error.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			cfg.ApplyEnv()
			return cfg, nil
		}
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg.ApplyEnv()
		return cfg, nil
	}

	iniFile, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ConfigFileName, err)
	}

	appSection := iniFile.Section("app")
	cfg.App.InstanceID = strings.TrimSpace(appSection.Key("instance_id").MustString(DefaultInstanceID))
	cfg.App.Debug = appSection.Key("debug").MustBool(false)
	cfg.App.FileLogging = appSection.Key("file_logging").MustBool(true)

	discoverySection := iniFile.Section("discovery")
	cfg.Discovery.InstallRoot = strings.TrimSpace(discoverySection.Key("install_root").String())
	cfg.Discovery.AppDataOverride = strings.TrimSpace(discoverySection.Key("appdata_override").String())

	cfg.ApplyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFileName, err)
	}
	return cfg, nil
}

// ApplyEnv overlays SC_COMPANION_* environment variables onto cfg.
func (cfg *Config) ApplyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDebug)); v != "" && v != "0" && !strings.EqualFold(v, "false") {
		cfg.App.Debug = true
	}
	if v := strings.TrimSpace(os.Getenv(EnvInstanceID)); v != "" {
		cfg.App.InstanceID = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvInstallRoot)); v != "" {
		cfg.Discovery.InstallRoot = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvAppDataDir)); v != "" {
		cfg.Discovery.AppDataOverride = v
	}
}

// Save writes configuration to companion.conf.
// If path is empty, uses the default path.
// Creates parent directories if they don't exist.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = DefaultConfigPath()
		if err != nil {
			return fmt.Errorf("failed to determine config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	iniFile := ini.Empty()

	appSection, err := iniFile.NewSection("app")
	if err != nil {
		return fmt.Errorf("failed to create app section: %w", err)
	}
	appSection.Key("instance_id").SetValue(cfg.App.InstanceID)
	appSection.Key("debug").SetValue(fmt.Sprintf("%t", cfg.App.Debug))
	appSection.Key("file_logging").SetValue(fmt.Sprintf("%t", cfg.App.FileLogging))

	discoverySection, err := iniFile.NewSection("discovery")
	if err != nil {
		return fmt.Errorf("failed to create discovery section: %w", err)
	}
	discoverySection.Key("install_root").SetValue(cfg.Discovery.InstallRoot)
	discoverySection.Key("appdata_override").SetValue(cfg.Discovery.AppDataOverride)

	// Temporary file + rename for atomicity
	tmpPath := path + ".tmp"
	if err := iniFile.SaveTo(tmpPath); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	if runtime.GOOS != "windows" {
		if err := os.Chmod(tmpPath, 0600); err != nil {
			os.Remove(tmpPath)
			return fmt.Errorf("failed to set config permissions: %w", err)
		}
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// Validate checks if the configuration is usable.
func (cfg *Config) Validate() error {
	if cfg.App.InstanceID == "" {
		return ErrMissingInstanceID
	}
	if !instanceIDPattern.MatchString(cfg.App.InstanceID) {
		return ErrInvalidInstanceID
	}
	if cfg.Discovery.InstallRoot != "" && !filepath.IsAbs(cfg.Discovery.InstallRoot) {
		return ErrRelativeInstallDir
	}
	return nil
}
