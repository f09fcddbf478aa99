package ipc

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"sync"
	"time"

	"github.com/sccompanion/sc-companion/internal/logging"
)

const (
	minAcceptBackoff = 10 * time.Millisecond
	maxAcceptBackoff = time.Second
)

// ActivationHandler receives activations forwarded by secondary instances.
// It may be called concurrently, once per accepted connection.
type ActivationHandler func(act Activation)

// Server accepts activation requests on the instance endpoint.
type Server struct {
	path     string
	handler  ActivationHandler
	logger   *logging.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewServer creates a new IPC server for the endpoint at path.
func NewServer(path string, handler ActivationHandler, logger *logging.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		path:    path,
		handler: handler,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start begins listening for IPC connections.
func (s *Server) Start() error {
	listener, err := listen(s.path)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.path, err)
	}

	s.logger.Info().Str("endpoint", s.path).Msg("Activation listener started")
	s.serve(listener)
	return nil
}

func (s *Server) serve(listener net.Listener) {
	s.listener = listener
	s.wg.Add(1)
	go s.acceptLoop()
}

// Stop shuts down the listener and waits for in-flight handlers.
func (s *Server) Stop() {
	s.logger.Debug().Msg("Stopping activation listener")
	s.cancel()

	if s.listener != nil {
		s.listener.Close()
	}

	s.wg.Wait()
	s.logger.Info().Msg("Activation listener stopped")
}

// acceptLoop runs until Stop. Accept errors such as EMFILE or ECONNABORTED
// are transient: they are logged and retried with backoff.
func (s *Server) acceptLoop() {
	defer s.wg.Done()

	backoff := minAcceptBackoff
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				return
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.logger.Error().Err(err).Msg("Activation listener closed unexpectedly")
				return
			}

			s.logger.Warn().Err(err).Dur("retry_in", backoff).Msg("Activation listener accept failed")
			select {
			case <-s.ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff = min(backoff*2, maxAcceptBackoff)
			continue
		}
		backoff = minAcceptBackoff

		s.wg.Add(1)
		go s.handleConnection(conn)
	}
}

// handleConnection processes a single client connection. The response is
// written before the handler runs so the secondary can exit immediately.
func (s *Server) handleConnection(conn net.Conn) {
	defer s.wg.Done()
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(10 * time.Second))

	reader := bufio.NewReader(conn)
	data, err := reader.ReadBytes('\n')
	if err != nil {
		if err != io.EOF {
			s.logger.Warn().Err(err).Msg("Failed to read activation request")
		}
		return
	}

	req, err := DecodeRequest(data)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to decode activation request")
		s.sendResponse(conn, NewErrorResponse("invalid request format"))
		return
	}

	switch req.Type {
	case MsgPing:
		s.sendResponse(conn, NewOKResponse())

	case MsgActivate:
		if req.Activation == nil {
			s.sendResponse(conn, NewErrorResponse("activation payload missing"))
			return
		}
		s.logger.Debug().
			Int("sender_pid", req.PID).
			Int("argc", len(req.Activation.Args)).
			Str("cwd", req.Activation.WorkingDirectory).
			Msg("Received activation")
		s.sendResponse(conn, NewOKResponse())
		if s.handler != nil {
			s.handler(*req.Activation)
		}

	default:
		s.sendResponse(conn, NewErrorResponse(fmt.Sprintf("unknown request type: %s", req.Type)))
	}
}

func (s *Server) sendResponse(conn net.Conn, resp *Response) {
	data, err := resp.Encode()
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode response")
		return
	}
	data = append(data, '\n')
	if _, err := conn.Write(data); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to write response")
	}
}
