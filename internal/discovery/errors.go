package discovery

import (
	"errors"
	"fmt"
	"io/fs"
)

// Discovery errors
var (
	// ErrUnsupportedPlatform is returned immediately on platforms without a
	// registry-backed locator.
	ErrUnsupportedPlatform = errors.New("Star Citizen log discovery is only supported on Windows")

	// ErrNotFound means every strategy came up empty.
	ErrNotFound = errors.New("could not find Star Citizen installation or logs")
)

// RegistryReadError is a failed registry read. It never aborts discovery;
// the strategy that hit it yields no candidates.
type RegistryReadError struct {
	Key   string
	Value string
	Err   error
}

func (e *RegistryReadError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("registry read %s: %v", e.Key, e.Err)
	}
	return fmt.Sprintf("registry read %s\\%s: %v", e.Key, e.Value, e.Err)
}

func (e *RegistryReadError) Unwrap() error {
	return e.Err
}

// PermissionDenied reports whether the read failed on access rights.
func (e *RegistryReadError) PermissionDenied() bool {
	return errors.Is(e.Err, fs.ErrPermission)
}

// UserMessage converts a discovery error into the single string shown by the UI.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrUnsupportedPlatform):
		return "Log discovery is only available on Windows."
	case errors.Is(err, ErrNotFound):
		return "Could not find Star Citizen installation or logs."
	default:
		return fmt.Sprintf("Log discovery failed: %v", err)
	}
}
