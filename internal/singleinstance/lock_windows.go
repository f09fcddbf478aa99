//go:build windows

package singleinstance

import (
	"golang.org/x/sys/windows"
)

// acquireLock creates the session-scoped named mutex. The handle is kept open
// for the process lifetime; Windows drops it on exit or crash.
func acquireLock(dir, instanceID string) (func() error, error) {
	name, err := windows.UTF16PtrFromString(`Local\` + instanceID + "-singleton")
	if err != nil {
		return nil, &GuardError{Op: "lock", Err: err}
	}

	handle, err := windows.CreateMutex(nil, false, name)
	if err == windows.ERROR_ALREADY_EXISTS {
		if handle != 0 {
			windows.CloseHandle(handle)
		}
		return nil, ErrNotPrimary
	}
	if err != nil {
		return nil, &GuardError{Op: "lock", Err: err}
	}

	return func() error {
		return windows.CloseHandle(handle)
	}, nil
}
