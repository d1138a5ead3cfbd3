package src

import (
	"encoding/json"
	"time"
)

// StreamState is the aggregator's position in the Idle → Streaming →
// Finalized cycle. Finalized collapses straight back to Idle, so only two
// observable states remain.
type StreamState int

const (
	StateIdle StreamState = iota
	StateStreaming
)

// StreamSession tracks the single live streaming message. At most one
// exists at a time; it is owned by the aggregator, never ambient state.
type StreamSession struct {
	Index     int // transcript index of the placeholder
	StartedAt time.Time
}

// Aggregator folds an unordered stream of agent_stream fragments into
// discrete transcript messages. Every fragment is first handed to the
// classifier: a positive match redirects into a tool-call block instead of
// prose, discarding any in-progress placeholder.
type Aggregator struct {
	transcript *Transcript
	classify   func(string) []ToolCall
	session    *StreamSession
}

func NewAggregator(t *Transcript) *Aggregator {
	return &Aggregator{transcript: t, classify: Classify}
}

func (a *Aggregator) State() StreamState {
	if a.session != nil {
		return StateStreaming
	}
	return StateIdle
}

// HandleChunk processes one agent_stream fragment. It returns the index
// of the affected message and whether that message is already finalized,
// which happens when the fragment classified as a tool-call batch.
func (a *Aggregator) HandleChunk(content string) (int, bool) {
	if calls := a.classify(content); calls != nil {
		if a.session != nil {
			// Redirect: the open session's placeholder becomes the block.
			idx := a.session.Index
			_ = a.transcript.ReplaceWithToolBlock(idx, calls)
			a.session = nil
			return idx, true
		}
		return a.transcript.AppendToolBlock(calls), true
	}

	clean := Sanitize(content)
	if a.session == nil {
		idx := a.transcript.AppendStreaming(clean)
		a.session = &StreamSession{Index: idx, StartedAt: time.Now()}
		return idx, false
	}
	_ = a.transcript.AppendToStreaming(a.session.Index, clean)
	return a.session.Index, false
}

// HandleEnd finalizes the open session. The returned index points at the
// finalized message; ok is false when no session was open, which is a
// no-op rather than an error.
func (a *Aggregator) HandleEnd() (int, bool) {
	if a.session == nil {
		return 0, false
	}
	idx := a.session.Index
	_ = a.transcript.FinalizeStreaming(idx)
	a.session = nil
	return idx, true
}

// HandleResult emits one finalized message per piece, classifying each.
// This path never opens a streaming session. Returns the indices of the
// emitted messages.
func (a *Aggregator) HandleResult(pieces []ResultPiece) []int {
	idxs := make([]int, 0, len(pieces))
	for _, p := range pieces {
		if calls := a.classify(p.Content); calls != nil {
			idxs = append(idxs, a.transcript.AppendToolBlock(calls))
			continue
		}
		idxs = append(idxs, a.transcript.AppendText(Sanitize(p.Content)))
	}
	return idxs
}

// HandleEcho emits the payload's textual form as a finalized message,
// independent of aggregator state.
func (a *Aggregator) HandleEcho(payload json.RawMessage) int {
	var text string
	if err := json.Unmarshal(payload, &text); err != nil {
		text = string(payload)
	}
	return a.transcript.AppendText(Sanitize(text))
}
