package ipc

import (
	"strings"
	"testing"
)

func TestActivateRequestPreservesArgs(t *testing.T) {
	act := Activation{
		Args:             []string{`C:\Apps\SC Companion.exe`, "sccompanion://open?x=1", "--extra"},
		WorkingDirectory: `C:\Users\pilot`,
	}
	req := NewActivateRequest(act, 4242)

	data, err := req.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(string(data), "\n") {
		t.Fatal("encoded request must be a single line")
	}

	decoded, err := DecodeRequest(data)
	if err != nil {
		t.Fatalf("DecodeRequest() error = %v", err)
	}
	if decoded.Type != MsgActivate {
		t.Errorf("Type = %q, want %q", decoded.Type, MsgActivate)
	}
	if decoded.PID != 4242 {
		t.Errorf("PID = %d, want 4242", decoded.PID)
	}
	if decoded.Activation == nil {
		t.Fatal("Activation missing after decode")
	}
	if len(decoded.Activation.Args) != 3 {
		t.Fatalf("expected 3 args, got %d", len(decoded.Activation.Args))
	}
	for i, want := range act.Args {
		if decoded.Activation.Args[i] != want {
			t.Errorf("Args[%d] = %q, want %q", i, decoded.Activation.Args[i], want)
		}
	}
	if decoded.Activation.WorkingDirectory != act.WorkingDirectory {
		t.Errorf("WorkingDirectory = %q, want %q", decoded.Activation.WorkingDirectory, act.WorkingDirectory)
	}
}

func TestPingRequestOmitsActivation(t *testing.T) {
	data, err := NewPingRequest().Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if strings.Contains(string(data), "activation") {
		t.Errorf("ping request should not carry an activation: %s", data)
	}
}

func TestResponses(t *testing.T) {
	ok := NewOKResponse()
	if ok.Type != MsgOK || !ok.Success || ok.Error != "" {
		t.Errorf("unexpected OK response: %+v", ok)
	}

	bad := NewErrorResponse("something went wrong")
	if bad.Type != MsgError || bad.Success || bad.Error != "something went wrong" {
		t.Errorf("unexpected error response: %+v", bad)
	}

	data, err := bad.Encode()
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	decoded, err := DecodeResponse(data)
	if err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if decoded.Error != bad.Error || decoded.Success {
		t.Errorf("decoded response mismatch: %+v", decoded)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	if _, err := DecodeRequest([]byte("not json")); err == nil {
		t.Error("expected error for invalid request JSON")
	}
	if _, err := DecodeResponse([]byte("{")); err == nil {
		t.Error("expected error for invalid response JSON")
	}
}
