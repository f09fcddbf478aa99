//go:build !windows

package singleinstance

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// acquireLock takes a non-blocking exclusive flock on <dir>/<id>.lock. The
// kernel releases the lock when the process exits, so a crashed primary never
// leaves a stale guard behind.
func acquireLock(dir, instanceID string) (func() error, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, &GuardError{Op: "lock", Err: fmt.Errorf("failed to create lock directory: %w", err)}
	}

	path := filepath.Join(dir, instanceID+".lock")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return nil, &GuardError{Op: "lock", Err: err}
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, ErrNotPrimary
		}
		return nil, &GuardError{Op: "lock", Err: err}
	}

	// Record the owner for diagnostics; the lock itself is what matters.
	f.Truncate(0)
	fmt.Fprintf(f, "%d\n", os.Getpid())

	return func() error {
		unix.Flock(int(f.Fd()), unix.LOCK_UN)
		return f.Close()
	}, nil
}
