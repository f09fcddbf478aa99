package ipc

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"os"
	"time"
)

// Client sends requests to the primary instance's endpoint.
type Client struct {
	timeout time.Duration
	path    string
}

// NewClient creates a new IPC client for the endpoint at path.
func NewClient(path string) *Client {
	return &Client{
		timeout: 2 * time.Second,
		path:    path,
	}
}

// SetTimeout sets the per-request timeout.
func (c *Client) SetTimeout(timeout time.Duration) {
	c.timeout = timeout
}

func (c *Client) connect(ctx context.Context) (net.Conn, error) {
	dialCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := dial(dialCtx, c.path)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.path, err)
	}
	return conn, nil
}

// sendRequest sends a request and receives a response.
func (c *Client) sendRequest(ctx context.Context, req *Request) (*Response, error) {
	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	conn.SetDeadline(time.Now().Add(c.timeout))

	data, err := req.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}
	data = append(data, '\n')

	if _, err := conn.Write(data); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	reader := bufio.NewReader(conn)
	respData, err := reader.ReadBytes('\n')
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	resp, err := DecodeResponse(respData)
	if err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return resp, nil
}

// Activate forwards an activation to the primary instance.
func (c *Client) Activate(ctx context.Context, act Activation) error {
	resp, err := c.sendRequest(ctx, NewActivateRequest(act, os.Getpid()))
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("primary rejected activation: %s", resp.Error)
	}
	return nil
}

// Ping checks that the primary is serving the endpoint.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.sendRequest(ctx, NewPingRequest())
	if err != nil {
		return err
	}
	if !resp.Success {
		return fmt.Errorf("ping failed: %s", resp.Error)
	}
	return nil
}
