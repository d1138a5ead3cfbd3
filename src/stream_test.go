package src

import (
	"encoding/json"
	"testing"
)

func TestAggregatorHelloWorld(t *testing.T) {
	tr := NewTranscript()
	agg := NewAggregator(tr)

	agg.HandleChunk("Hello ")
	if agg.State() != StateStreaming {
		t.Fatalf("expected streaming state after first chunk")
	}
	agg.HandleChunk("world")

	idx, ok := agg.HandleEnd()
	if !ok {
		t.Fatalf("expected an open session to finalize")
	}
	if agg.State() != StateIdle {
		t.Fatalf("expected idle state after end")
	}

	if tr.Len() != 1 {
		t.Fatalf("expected exactly one message, got %d", tr.Len())
	}
	m, _ := tr.At(idx)
	if m.Streaming {
		t.Fatalf("message still streaming")
	}
	if m.Content != "Hello world" {
		t.Fatalf("unexpected content: %q", m.Content)
	}
}

func TestAggregatorRedirect(t *testing.T) {
	tr := NewTranscript()
	agg := NewAggregator(tr)

	agg.HandleChunk("Let me check ")
	idx, finalized := agg.HandleChunk(`[{'name': 'read_file', 'args': {'file_path': 'a.csv'}}]`)
	if !finalized {
		t.Fatalf("batch fragment should finalize immediately")
	}
	if agg.State() != StateIdle {
		t.Fatalf("redirect must close the session")
	}

	if tr.Len() != 1 {
		t.Fatalf("redirect must replace, not append; len=%d", tr.Len())
	}
	m, _ := tr.At(idx)
	if m.Kind != KindTool {
		t.Fatalf("expected tool block, got %v", m.Kind)
	}
	if len(m.Calls) != 1 || m.Calls[0].Name != "read_file" {
		t.Fatalf("unexpected calls: %#v", m.Calls)
	}

	// The end marker for the redirected session is a no-op.
	if _, ok := agg.HandleEnd(); ok {
		t.Fatalf("HandleEnd after redirect should be a no-op")
	}
}

func TestAggregatorBatchWithoutSession(t *testing.T) {
	tr := NewTranscript()
	agg := NewAggregator(tr)

	idx, finalized := agg.HandleChunk(`[{"name": "head", "args": {"n": 3}}]`)
	if !finalized {
		t.Fatalf("expected finalized tool block")
	}
	if agg.State() != StateIdle {
		t.Fatalf("no session should open for a batch fragment")
	}
	m, _ := tr.At(idx)
	if m.Kind != KindTool {
		t.Fatalf("expected tool block, got %v", m.Kind)
	}
}

func TestAggregatorEndWithoutSession(t *testing.T) {
	agg := NewAggregator(NewTranscript())
	if _, ok := agg.HandleEnd(); ok {
		t.Fatalf("end without a session must be a no-op")
	}
}

func TestAggregatorResultPieces(t *testing.T) {
	tr := NewTranscript()
	agg := NewAggregator(tr)

	idxs := agg.HandleResult([]ResultPiece{
		{Content: "The file has 10 rows."},
		{Content: `[{"name": "read_file", "args": {}}]`},
	})
	if len(idxs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(idxs))
	}
	if agg.State() != StateIdle {
		t.Fatalf("agent_result must never open a session")
	}

	first, _ := tr.At(idxs[0])
	if first.Kind != KindText || first.Streaming {
		t.Fatalf("expected finalized text, got %+v", first)
	}
	second, _ := tr.At(idxs[1])
	if second.Kind != KindTool {
		t.Fatalf("expected tool block, got %+v", second)
	}
}

func TestAggregatorEcho(t *testing.T) {
	tr := NewTranscript()
	agg := NewAggregator(tr)

	idx := agg.HandleEcho(json.RawMessage(`"hello back"`))
	m, _ := tr.At(idx)
	if m.Kind != KindText || m.Content != "hello back" {
		t.Fatalf("unexpected echo message: %+v", m)
	}

	idx = agg.HandleEcho(json.RawMessage(`{"msg": "raw"}`))
	m, _ = tr.At(idx)
	if m.Kind != KindText || m.Content == "" {
		t.Fatalf("non-string echo payload should render its raw form: %+v", m)
	}
}
