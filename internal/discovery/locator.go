package discovery

// InstallationLocator provides the OS lookups discovery depends on.
// Implementations return ("", nil) when an entry simply does not exist, and a
// *RegistryReadError when one exists but could not be read.
type InstallationLocator interface {
	// Supported reports whether discovery can run on this platform at all.
	Supported() bool

	// LauncherPath returns the launcher's install directory from App Paths.
	LauncherPath() (string, error)

	// InstallLocation returns the publisher's recorded install directory.
	InstallLocation() (string, error)

	// UserDataDir returns the roaming application data directory.
	UserDataDir() (string, error)
}

// unsupportedLocator is used on every non-Windows platform.
type unsupportedLocator struct{}

func (unsupportedLocator) Supported() bool                  { return false }
func (unsupportedLocator) LauncherPath() (string, error)    { return "", ErrUnsupportedPlatform }
func (unsupportedLocator) InstallLocation() (string, error) { return "", ErrUnsupportedPlatform }
func (unsupportedLocator) UserDataDir() (string, error)     { return "", ErrUnsupportedPlatform }
