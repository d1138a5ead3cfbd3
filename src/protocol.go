package src

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Envelope types carried over the backend connection, both directions.
const (
	TypeQuery     = "query"
	TypeList      = "list"
	TypeVisualize = "visualize"

	TypeConnected       = "connected"
	TypeListResult      = "list_result"
	TypeVisualizeResult = "visualize_result"
	TypeAgentStream     = "agent_stream"
	TypeAgentStreamEnd  = "agent_stream_end"
	TypeEcho            = "echo"
	TypeToolCalls       = "tool_calls"
	TypeAgentResult     = "agent_result"
	TypeAgentError      = "agent_error"
)

// ErrNoType marks an envelope that parsed as JSON but carries no type tag.
var ErrNoType = errors.New("envelope has no type")

// Envelope is the wire frame: a type tag plus an opaque payload that is
// decoded by whoever handles the tag.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// DecodeEnvelope parses a raw frame. Frames that are not JSON or have no
// type are rejected here so the read loop can drop them in one place.
func DecodeEnvelope(data []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if strings.TrimSpace(env.Type) == "" {
		return Envelope{}, ErrNoType
	}
	return env, nil
}

// NewEnvelope builds an outgoing frame.
func NewEnvelope(msgType string, payload any) (Envelope, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Envelope{}, fmt.Errorf("encode %s payload: %w", msgType, err)
	}
	return Envelope{Type: msgType, Payload: raw}, nil
}

// FsEntry is one remote directory entry as reported by the backend.
type FsEntry struct {
	Name  string `json:"name"`
	Path  string `json:"path"`
	IsDir bool   `json:"is_dir"`
}

// ListResult is the payload of list_result and of the HTTP listing
// endpoint. Exactly one of Items or Error is meaningful.
type ListResult struct {
	Items []FsEntry `json:"items,omitempty"`
	Error string    `json:"error,omitempty"`
}

// VisualCard is one stylized card in a visualize_result payload.
type VisualCard struct {
	Title    string `json:"title"`
	Subtitle string `json:"subtitle"`
}

// StreamChunk is the payload of a single agent_stream fragment.
type StreamChunk struct {
	Content string `json:"content"`
}

// ResultPiece is one element of an agent_result payload.
type ResultPiece struct {
	Content string `json:"content"`
}

// QueryPayload carries a user-submitted query to the backend.
type QueryPayload struct {
	Text string `json:"text"`
}

// ListPayload requests a directory listing over the socket.
type ListPayload struct {
	Path string `json:"path"`
}

// VisualizePayload asks the backend to shape entries into cards.
type VisualizePayload struct {
	Items []FsEntry `json:"items"`
}

// ConnectedPayload is the handshake acknowledgment.
type ConnectedPayload struct {
	ClientID string `json:"client_id"`
}

// AgentErrorPayload reports a backend-side agent failure.
type AgentErrorPayload struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
