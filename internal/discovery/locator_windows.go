//go:build windows

package discovery

import (
	"errors"
	"path/filepath"
	"strings"

	"golang.org/x/sys/windows/registry"

	"github.com/sccompanion/sc-companion/internal/config"
)

const (
	appPathsKey     = `SOFTWARE\Microsoft\Windows\CurrentVersion\App Paths\RSI Launcher.exe`
	publisherKey    = `SOFTWARE\Roberts Space Industries\RSI Launcher`
	publisherKeyWow = `SOFTWARE\WOW6432Node\Roberts Space Industries\RSI Launcher`
	installValue    = "InstallLocation"
)

type registryLookup struct {
	root     registry.Key
	rootName string
	path     string
}

func (l registryLookup) name() string {
	return l.rootName + `\` + l.path
}

// registryLocator reads launcher locations from the Windows registry.
type registryLocator struct{}

// NewLocator returns the platform locator.
func NewLocator() InstallationLocator {
	return registryLocator{}
}

func (registryLocator) Supported() bool { return true }

// LauncherPath prefers the App Paths "Path" value and falls back to the
// directory of the default value (the full path of the executable).
func (registryLocator) LauncherPath() (string, error) {
	lookups := []registryLookup{
		{registry.LOCAL_MACHINE, "HKLM", appPathsKey},
		{registry.CURRENT_USER, "HKCU", appPathsKey},
	}

	var firstErr error
	for _, l := range lookups {
		dir, err := readAppPath(l)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if dir != "" {
			return dir, nil
		}
	}
	return "", firstErr
}

func readAppPath(l registryLookup) (string, error) {
	key, err := registry.OpenKey(l.root, l.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", &RegistryReadError{Key: l.name(), Err: err}
	}
	defer key.Close()

	if dir, valtype, err := key.GetStringValue("Path"); err == nil && strings.TrimSpace(dir) != "" {
		return cleanRegistryPath(dir, valtype), nil
	} else if err != nil && !errors.Is(err, registry.ErrNotExist) {
		return "", &RegistryReadError{Key: l.name(), Value: "Path", Err: err}
	}

	exe, valtype, err := key.GetStringValue("")
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", &RegistryReadError{Key: l.name(), Value: "(Default)", Err: err}
	}
	exe = cleanRegistryPath(exe, valtype)
	if exe == "" {
		return "", nil
	}
	return filepath.Dir(exe), nil
}

func (registryLocator) InstallLocation() (string, error) {
	lookups := []registryLookup{
		{registry.LOCAL_MACHINE, "HKLM", publisherKey},
		{registry.LOCAL_MACHINE, "HKLM", publisherKeyWow},
		{registry.CURRENT_USER, "HKCU", publisherKey},
	}

	var firstErr error
	for _, l := range lookups {
		dir, err := readStringValue(l, installValue)
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		if dir != "" {
			return dir, nil
		}
	}
	return "", firstErr
}

func readStringValue(l registryLookup, value string) (string, error) {
	key, err := registry.OpenKey(l.root, l.path, registry.QUERY_VALUE)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", &RegistryReadError{Key: l.name(), Err: err}
	}
	defer key.Close()

	s, valtype, err := key.GetStringValue(value)
	if err != nil {
		if errors.Is(err, registry.ErrNotExist) {
			return "", nil
		}
		return "", &RegistryReadError{Key: l.name(), Value: value, Err: err}
	}
	return cleanRegistryPath(s, valtype), nil
}

func (registryLocator) UserDataDir() (string, error) {
	return config.RoamingAppData()
}

// cleanRegistryPath strips the quotes and whitespace installers leave around
// paths. Only REG_EXPAND_SZ values have their %VAR% references expanded;
// REG_SZ data is taken literally.
func cleanRegistryPath(s string, valtype uint32) string {
	s = strings.Trim(strings.TrimSpace(s), `"`)
	if valtype != registry.EXPAND_SZ {
		return s
	}
	expanded, err := registry.ExpandString(s)
	if err != nil {
		return s
	}
	return expanded
}
