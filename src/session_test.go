package src

import (
	"encoding/json"
	"testing"

	"go.uber.org/zap"
)

func newTestController(t *testing.T) *Controller {
	t.Helper()
	return NewController("client-test", "/", nil, zap.NewNop())
}

func mustEnvelope(t *testing.T, msgType string, payload any) Envelope {
	t.Helper()
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		t.Fatalf("NewEnvelope(%s): %v", msgType, err)
	}
	return env
}

func TestControllerStreamCycle(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeAgentStream, StreamChunk{Content: "Hello "}))
	c.HandleEnvelope(mustEnvelope(t, TypeAgentStream, StreamChunk{Content: "world"}))
	c.HandleEnvelope(mustEnvelope(t, TypeAgentStreamEnd, nil))

	if c.Transcript.Len() != 1 {
		t.Fatalf("expected one message, got %d", c.Transcript.Len())
	}
	m, _ := c.Transcript.At(0)
	if m.Streaming || m.Content != "Hello world" {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestControllerListResult(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeListResult, ListResult{
		Items: []FsEntry{{Name: "a", Path: "/a", IsDir: true}},
	}))
	if c.Tree.NodeAt("/a") == nil {
		t.Fatalf("listing did not populate the tree")
	}

	c.HandleEnvelope(mustEnvelope(t, TypeListResult, ListResult{Error: "permission denied"}))
	m, _ := c.Transcript.At(c.Transcript.Len() - 1)
	if m.Kind != KindError {
		t.Fatalf("listing failure must surface as an error message, got %v", m.Kind)
	}
}

func TestControllerToolCallsEnvelope(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeToolCalls, []ToolCall{
		{Name: "read_file", Args: map[string]any{"file_path": "a.csv"}, ID: "call_1"},
	}))
	m, _ := c.Transcript.At(0)
	if m.Kind != KindTool || len(m.Calls) != 1 {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestControllerAgentError(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeAgentError, AgentErrorPayload{
		Error: "model overloaded", Details: "retry later",
	}))
	m, _ := c.Transcript.At(0)
	if m.Kind != KindError {
		t.Fatalf("expected error message, got %v", m.Kind)
	}
	if m.Content != "model overloaded: retry later" {
		t.Fatalf("unexpected content: %q", m.Content)
	}
}

func TestControllerConnected(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeConnected, ConnectedPayload{ClientID: "client-test"}))
	m, _ := c.Transcript.At(0)
	if m.Kind != KindInfo {
		t.Fatalf("expected info message, got %v", m.Kind)
	}
}

func TestControllerVisualizeResult(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeVisualizeResult, []VisualCard{
		{Title: "a", Subtitle: "/a"},
	}))
	m, _ := c.Transcript.At(0)
	if m.Kind != KindCards || len(m.Cards) != 1 {
		t.Fatalf("unexpected message: %+v", m)
	}
}

func TestControllerDropsBadPayloads(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(Envelope{Type: TypeAgentStream, Payload: json.RawMessage(`"not an object"`)})
	c.HandleEnvelope(Envelope{Type: "mystery", Payload: json.RawMessage(`{}`)})

	if c.Transcript.Len() != 0 {
		t.Fatalf("bad payloads must be dropped silently, got %d messages", c.Transcript.Len())
	}
}

func TestControllerAgentResultInterleaved(t *testing.T) {
	c := newTestController(t)

	c.HandleEnvelope(mustEnvelope(t, TypeAgentResult, []ResultPiece{
		{Content: "Found it."},
		{Content: `[{"name": "head", "args": {"n": 5}}]`},
	}))
	if c.Transcript.Len() != 2 {
		t.Fatalf("expected 2 messages, got %d", c.Transcript.Len())
	}
	first, _ := c.Transcript.At(0)
	second, _ := c.Transcript.At(1)
	if first.Kind != KindText || second.Kind != KindTool {
		t.Fatalf("unexpected kinds: %v, %v", first.Kind, second.Kind)
	}
}
