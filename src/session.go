package src

import (
	"encoding/json"

	"go.uber.org/zap"
)

// Controller owns the session state: the transcript, the stream
// aggregator, the filesystem mirror, and the history store. It routes
// every incoming envelope to the right state machine. All methods run on
// the update loop; the controller itself is not goroutine-safe.
type Controller struct {
	ClientID   string
	Transcript *Transcript
	Agg        *Aggregator
	Tree       *Tree

	store *Store
	log   *zap.Logger
}

func NewController(clientID, rootPath string, store *Store, log *zap.Logger) *Controller {
	t := NewTranscript()
	return &Controller{
		ClientID:   clientID,
		Transcript: t,
		Agg:        NewAggregator(t),
		Tree:       NewTree(rootPath),
		store:      store,
		log:        log,
	}
}

// HandleEnvelope routes one decoded incoming envelope. Unknown types and
// undecodable payloads are logged and dropped; routing never fails.
func (c *Controller) HandleEnvelope(env Envelope) {
	switch env.Type {

	case TypeConnected:
		var p ConnectedPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		c.Transcript.AppendInfo("connected as " + p.ClientID)

	case TypeListResult:
		var res ListResult
		if err := json.Unmarshal(env.Payload, &res); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		if res.Error != "" {
			c.persist(c.Transcript.AppendError("listing failed: " + res.Error))
			return
		}
		c.Tree.SetRoots(res.Items)

	case TypeVisualizeResult:
		var cards []VisualCard
		if err := json.Unmarshal(env.Payload, &cards); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		c.Transcript.AppendCards(cards)

	case TypeAgentStream:
		var chunk StreamChunk
		if err := json.Unmarshal(env.Payload, &chunk); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		// A fragment that classified as a batch lands finalized immediately.
		if idx, finalized := c.Agg.HandleChunk(chunk.Content); finalized {
			c.persist(idx)
		}

	case TypeAgentStreamEnd:
		if idx, ok := c.Agg.HandleEnd(); ok {
			c.persist(idx)
		}

	case TypeAgentResult:
		var pieces []ResultPiece
		if err := json.Unmarshal(env.Payload, &pieces); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		for _, idx := range c.Agg.HandleResult(pieces) {
			c.persist(idx)
		}

	case TypeEcho:
		c.persist(c.Agg.HandleEcho(env.Payload))

	case TypeToolCalls:
		var calls []ToolCall
		if err := json.Unmarshal(env.Payload, &calls); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		c.persist(c.Transcript.AppendToolBlock(calls))

	case TypeAgentError:
		var p AgentErrorPayload
		if err := json.Unmarshal(env.Payload, &p); err != nil {
			c.dropPayload(env.Type, err)
			return
		}
		text := p.Error
		if p.Details != "" {
			text += ": " + p.Details
		}
		c.persist(c.Transcript.AppendError(text))

	default:
		c.log.Warn("dropping envelope of unknown type", zap.String("type", env.Type))
	}
}

// SubmitQuery records the user's message and persists it; the caller sends
// the query envelope.
func (c *Controller) SubmitQuery(text string) {
	c.persist(c.Transcript.AppendUser(text))
}

// ReportError surfaces a client-side failure in the transcript.
func (c *Controller) ReportError(text string) {
	c.persist(c.Transcript.AppendError(text))
}

// RecentHistory loads the latest n persisted messages back into the
// transcript as info lines.
func (c *Controller) RecentHistory(n int) error {
	msgs, err := c.store.Recent(n)
	if err != nil {
		return err
	}
	if len(msgs) == 0 {
		c.Transcript.AppendInfo("history is empty")
		return nil
	}
	for _, m := range msgs {
		c.Transcript.AppendInfo("[" + m.CreatedAt.Local().Format("Jan 02 15:04") + " " + m.Kind + "] " + m.Content)
	}
	return nil
}

func (c *Controller) dropPayload(msgType string, err error) {
	c.log.Warn("dropping envelope with undecodable payload",
		zap.String("type", msgType), zap.Error(err))
}

// persist writes the finalized message at idx to the history store.
// Persistence failures are logged, never surfaced; the transcript is the
// source of truth for the session.
func (c *Controller) persist(idx int) {
	if c.store == nil {
		return
	}
	m, ok := c.Transcript.At(idx)
	if !ok || m.Streaming {
		return
	}
	if err := c.store.SaveMessage(c.ClientID, m); err != nil {
		c.log.Warn("failed to persist message", zap.Int("index", idx), zap.Error(err))
	}
}
