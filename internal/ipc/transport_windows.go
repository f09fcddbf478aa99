//go:build windows

package ipc

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/Microsoft/go-winio"
	"golang.org/x/sys/windows"
)

// Windows error codes for named pipes
const (
	ERROR_FILE_NOT_FOUND = syscall.Errno(2)
	ERROR_PIPE_BUSY      = syscall.Errno(231)
)

// EndpointPath returns the named pipe path for an instance ID. dir is unused on
// Windows. Pipe names are machine-wide while the singleton mutex is
// per-session, so the session ID is part of the name.
func EndpointPath(dir, instanceID string) string {
	return pipeName(instanceID, currentSessionID())
}

func pipeName(instanceID string, sessionID uint32) string {
	return fmt.Sprintf(`\\.\pipe\%s-%d-activation`, instanceID, sessionID)
}

func currentSessionID() uint32 {
	var session uint32
	if err := windows.ProcessIdToSessionId(windows.GetCurrentProcessId(), &session); err != nil {
		return 0
	}
	return session
}

// pipeSecurityDescriptor grants access to the current user only, so other
// accounts cannot push activations into this user's window.
func pipeSecurityDescriptor() (string, error) {
	user, err := windows.GetCurrentProcessToken().GetTokenUser()
	if err != nil {
		return "", fmt.Errorf("failed to read process token user: %w", err)
	}
	return "D:P(A;;GA;;;" + user.User.Sid.String() + ")", nil
}

// listen creates the named pipe listener. Only the first pipe instance can be
// created under a given name, so a second primary cannot sneak in.
func listen(path string) (net.Listener, error) {
	sddl, err := pipeSecurityDescriptor()
	if err != nil {
		return nil, err
	}
	cfg := &winio.PipeConfig{
		SecurityDescriptor: sddl,
		MessageMode:        true,
		InputBufferSize:    4096,
		OutputBufferSize:   4096,
	}
	return winio.ListenPipe(path, cfg)
}

// dial connects to the named pipe.
func dial(ctx context.Context, path string) (net.Conn, error) {
	return winio.DialPipeContext(ctx, path)
}

// IsNotListening reports whether err means nobody is serving the endpoint yet.
// winio wraps the errno, so unwrap with errors.As.
func IsNotListening(err error) bool {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno == ERROR_FILE_NOT_FOUND
	}
	return false
}
