package src

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestDecodeEnvelope(t *testing.T) {
	env, err := DecodeEnvelope([]byte(`{"type": "agent_stream", "payload": {"content": "hi"}}`))
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	if env.Type != TypeAgentStream {
		t.Fatalf("unexpected type: %q", env.Type)
	}
	var chunk StreamChunk
	if err := json.Unmarshal(env.Payload, &chunk); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if chunk.Content != "hi" {
		t.Fatalf("unexpected content: %q", chunk.Content)
	}
}

func TestDecodeEnvelopeRejectsNonJSON(t *testing.T) {
	if _, err := DecodeEnvelope([]byte("not json at all")); err == nil {
		t.Fatalf("expected error for non-JSON frame")
	}
}

func TestDecodeEnvelopeRejectsMissingType(t *testing.T) {
	cases := [][]byte{
		[]byte(`{"payload": {}}`),
		[]byte(`{"type": "", "payload": {}}`),
		[]byte(`{"type": "   "}`),
	}
	for _, frame := range cases {
		if _, err := DecodeEnvelope(frame); !errors.Is(err, ErrNoType) {
			t.Fatalf("DecodeEnvelope(%s): expected ErrNoType, got %v", frame, err)
		}
	}
}

func TestNewEnvelopeRoundTrip(t *testing.T) {
	env, err := NewEnvelope(TypeQuery, QueryPayload{Text: "how many rows?"})
	if err != nil {
		t.Fatalf("NewEnvelope: %v", err)
	}
	data, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := DecodeEnvelope(data)
	if err != nil {
		t.Fatalf("DecodeEnvelope: %v", err)
	}
	var q QueryPayload
	if err := json.Unmarshal(decoded.Payload, &q); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if q.Text != "how many rows?" {
		t.Fatalf("unexpected text: %q", q.Text)
	}
}
