package ipc

import (
	"bufio"
	"net"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/sccompanion/sc-companion/internal/logging"
)

// flakyListener fails the first Accept calls, then hands out queued conns.
type flakyListener struct {
	mu     sync.Mutex
	errs   []error
	conns  chan net.Conn
	closed chan struct{}
	once   sync.Once
}

func newFlakyListener(errs ...error) *flakyListener {
	return &flakyListener{
		errs:   errs,
		conns:  make(chan net.Conn, 1),
		closed: make(chan struct{}),
	}
}

func (l *flakyListener) Accept() (net.Conn, error) {
	l.mu.Lock()
	if len(l.errs) > 0 {
		err := l.errs[0]
		l.errs = l.errs[1:]
		l.mu.Unlock()
		return nil, err
	}
	l.mu.Unlock()

	select {
	case c := <-l.conns:
		return c, nil
	case <-l.closed:
		return nil, net.ErrClosed
	}
}

func (l *flakyListener) Close() error {
	l.once.Do(func() { close(l.closed) })
	return nil
}

func (l *flakyListener) Addr() net.Addr {
	return &net.UnixAddr{Name: "flaky", Net: "unix"}
}

func TestServerSurvivesTransientAcceptErrors(t *testing.T) {
	listener := newFlakyListener(
		&net.OpError{Op: "accept", Net: "unix", Err: os.NewSyscallError("accept", syscall.EMFILE)},
		&net.OpError{Op: "accept", Net: "unix", Err: os.NewSyscallError("accept", syscall.ECONNABORTED)},
	)

	received := make(chan Activation, 1)
	server := NewServer("flaky", func(act Activation) { received <- act }, logging.Nop())
	server.serve(listener)
	defer server.Stop()

	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	listener.conns <- serverConn

	data, err := NewActivateRequest(Activation{Args: []string{"app", "after-errors"}}, 1).Encode()
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	clientConn.SetDeadline(time.Now().Add(2 * time.Second))
	if _, err := clientConn.Write(append(data, '\n')); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	line, err := bufio.NewReader(clientConn).ReadBytes('\n')
	if err != nil {
		t.Fatalf("ReadBytes failed: %v", err)
	}
	resp, err := DecodeResponse(line)
	if err != nil || !resp.Success {
		t.Fatalf("unexpected response %+v (err %v)", resp, err)
	}

	select {
	case act := <-received:
		if act.Args[1] != "after-errors" {
			t.Errorf("unexpected args %v", act.Args)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler not called after accept errors")
	}
}

func TestServerStopEndsAcceptBackoff(t *testing.T) {
	errs := make([]error, 50)
	for i := range errs {
		errs[i] = &net.OpError{Op: "accept", Net: "unix", Err: os.NewSyscallError("accept", syscall.EMFILE)}
	}
	server := NewServer("flaky", nil, logging.Nop())
	server.serve(newFlakyListener(errs...))

	done := make(chan struct{})
	go func() {
		server.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not interrupt the accept backoff")
	}
}
