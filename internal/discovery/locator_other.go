//go:build !windows

package discovery

// NewLocator returns the platform locator.
func NewLocator() InstallationLocator {
	return unsupportedLocator{}
}
