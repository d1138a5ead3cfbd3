package src

import (
	"errors"
	"time"
)

// MessageKind tags one transcript entry.
type MessageKind int

const (
	KindUser MessageKind = iota
	KindText
	KindTool
	KindCards
	KindInfo
	KindError
)

func (k MessageKind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindText:
		return "text"
	case KindTool:
		return "tool"
	case KindCards:
		return "cards"
	case KindInfo:
		return "info"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrNotStreaming is returned for streaming ops on a finalized message.
var ErrNotStreaming = errors.New("message is not streaming")

// Message is one transcript entry. Once Streaming drops to false the entry
// is finalized and never mutated again.
type Message struct {
	Kind      MessageKind
	Content   string // sanitized markup for text kinds, plain text otherwise
	Calls     []ToolCall
	Cards     []VisualCard
	Streaming bool
	CreatedAt time.Time
}

// Transcript is the append-only message log the UI binds to. Every mutation
// goes through an explicit operation; indices returned by the Append ops
// stay valid because entries are never removed, only replaced in place by
// ReplaceWithToolBlock.
type Transcript struct {
	msgs []Message
}

func NewTranscript() *Transcript {
	return &Transcript{}
}

func (t *Transcript) Len() int { return len(t.msgs) }

// Messages returns a snapshot for rendering.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// At returns the entry at idx.
func (t *Transcript) At(idx int) (Message, bool) {
	if idx < 0 || idx >= len(t.msgs) {
		return Message{}, false
	}
	return t.msgs[idx], true
}

func (t *Transcript) append(m Message) int {
	m.CreatedAt = time.Now()
	t.msgs = append(t.msgs, m)
	return len(t.msgs) - 1
}

// AppendUser records a submitted query.
func (t *Transcript) AppendUser(text string) int {
	return t.append(Message{Kind: KindUser, Content: text})
}

// AppendText records a finalized text message.
func (t *Transcript) AppendText(markup string) int {
	return t.append(Message{Kind: KindText, Content: markup})
}

// AppendInfo records a status line.
func (t *Transcript) AppendInfo(text string) int {
	return t.append(Message{Kind: KindInfo, Content: text})
}

// AppendError records a user-visible failure.
func (t *Transcript) AppendError(text string) int {
	return t.append(Message{Kind: KindError, Content: text})
}

// AppendToolBlock records a finalized tool-call batch.
func (t *Transcript) AppendToolBlock(calls []ToolCall) int {
	return t.append(Message{Kind: KindTool, Calls: calls})
}

// AppendCards records a visualize_result card list.
func (t *Transcript) AppendCards(cards []VisualCard) int {
	return t.append(Message{Kind: KindCards, Cards: cards})
}

// AppendStreaming opens the in-progress placeholder for a stream session.
func (t *Transcript) AppendStreaming(markup string) int {
	return t.append(Message{Kind: KindText, Content: markup, Streaming: true})
}

// AppendToStreaming grows the open placeholder at idx.
func (t *Transcript) AppendToStreaming(idx int, markup string) error {
	if idx < 0 || idx >= len(t.msgs) || !t.msgs[idx].Streaming {
		return ErrNotStreaming
	}
	t.msgs[idx].Content += markup
	return nil
}

// FinalizeStreaming flips the placeholder at idx to its final form.
func (t *Transcript) FinalizeStreaming(idx int) error {
	if idx < 0 || idx >= len(t.msgs) || !t.msgs[idx].Streaming {
		return ErrNotStreaming
	}
	t.msgs[idx].Streaming = false
	return nil
}

// ReplaceWithToolBlock discards the streaming placeholder at idx and puts a
// tool-call block in its place. This is the Redirect path: a fragment that
// turned out to be a serialized batch must not leave partial prose behind.
func (t *Transcript) ReplaceWithToolBlock(idx int, calls []ToolCall) error {
	if idx < 0 || idx >= len(t.msgs) || !t.msgs[idx].Streaming {
		return ErrNotStreaming
	}
	t.msgs[idx] = Message{Kind: KindTool, Calls: calls, CreatedAt: t.msgs[idx].CreatedAt}
	return nil
}
