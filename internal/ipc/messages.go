// Package ipc carries launch activations from a secondary process to the
// primary instance. Messages are newline-delimited JSON over a Windows named
// pipe or a Unix domain socket.
package ipc

import (
	"encoding/json"
)

// MessageType identifies the type of IPC message.
type MessageType string

const (
	// Request types (secondary -> primary)
	MsgActivate MessageType = "Activate"
	MsgPing     MessageType = "Ping"

	// Response types (primary -> secondary)
	MsgOK    MessageType = "OK"
	MsgError MessageType = "Error"
)

// Activation is the argv and working directory of a launch attempt.
type Activation struct {
	// Args is the full argument vector, Args[0] being the executable path.
	Args []string `json:"args"`

	// WorkingDirectory is the directory the secondary was launched from.
	WorkingDirectory string `json:"working_directory"`
}

// Request represents an IPC request from client to server.
type Request struct {
	Type       MessageType `json:"type"`
	Activation *Activation `json:"activation,omitempty"`
	// PID of the sending process, for logging only.
	PID int `json:"pid,omitempty"`
}

// Response represents an IPC response from server to client.
type Response struct {
	Type    MessageType `json:"type"`
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
}

// NewActivateRequest creates an activation request.
func NewActivateRequest(act Activation, pid int) *Request {
	return &Request{Type: MsgActivate, Activation: &act, PID: pid}
}

// NewPingRequest creates a liveness check request.
func NewPingRequest() *Request {
	return &Request{Type: MsgPing}
}

// NewOKResponse creates a success response.
func NewOKResponse() *Response {
	return &Response{Type: MsgOK, Success: true}
}

// NewErrorResponse creates an error response.
func NewErrorResponse(err string) *Response {
	return &Response{Type: MsgError, Success: false, Error: err}
}

// Encode serializes a request to JSON.
func (r *Request) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// Encode serializes a response to JSON.
func (r *Response) Encode() ([]byte, error) {
	return json.Marshal(r)
}

// DecodeRequest deserializes a request from JSON.
func DecodeRequest(data []byte) (*Request, error) {
	var req Request
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// DecodeResponse deserializes a response from JSON.
func DecodeResponse(data []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
