package singleinstance

import (
	"errors"
	"fmt"
)

var (
	// ErrNotPrimary is returned when another process already holds the guard.
	// It is control flow, not a failure: the caller forwards and exits.
	ErrNotPrimary = errors.New("another instance is already running")

	// ErrGuardAcquisitionFailed marks an OS failure while taking the guard.
	// Startup must abort; running without the guard could yield two primaries.
	ErrGuardAcquisitionFailed = errors.New("single-instance guard acquisition failed")
)

// GuardError describes why the guard could not be acquired.
type GuardError struct {
	Op  string // "lock", "listen"
	Err error
}

func (e *GuardError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrGuardAcquisitionFailed, e.Op, e.Err)
}

// Unwrap returns the underlying OS error.
func (e *GuardError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrGuardAcquisitionFailed) match any GuardError.
func (e *GuardError) Is(target error) bool {
	return target == ErrGuardAcquisitionFailed
}
