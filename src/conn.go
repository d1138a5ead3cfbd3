package src

import (
	"fmt"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// envelopeMsg delivers one decoded incoming envelope to the update loop.
type envelopeMsg struct {
	env Envelope
}

// connClosedMsg is sent once when the read pump exits. After it the client
// keeps running for local browsing; reconnecting is not attempted.
type connClosedMsg struct {
	err error
}

// Conn wraps the single websocket session. Reads happen on the pump
// goroutine only; writes are serialized by the mutex so commands issued
// from the update loop never interleave frames.
type Conn struct {
	ws  *websocket.Conn
	log *zap.Logger

	mu     sync.Mutex
	closed bool
}

// DialBackend opens the session socket.
func DialBackend(socketURL string, log *zap.Logger) (*Conn, error) {
	ws, _, err := websocket.DefaultDialer.Dial(socketURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", socketURL, err)
	}
	return &Conn{ws: ws, log: log}, nil
}

// ReadPump reads frames until the socket dies, handing each decoded
// envelope to send. Malformed frames are logged and dropped; they never
// end the session. Runs on its own goroutine.
func (c *Conn) ReadPump(send func(tea.Msg)) {
	var readErr error
	defer func() { send(connClosedMsg{err: readErr}) }()
	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			c.mu.Lock()
			closed := c.closed
			c.mu.Unlock()
			if !closed {
				// A deliberate Close is not an error; everything else is.
				c.log.Warn("socket read failed", zap.Error(err))
				readErr = err
			}
			return
		}

		env, err := DecodeEnvelope(data)
		if err != nil {
			c.log.Warn("dropping malformed envelope", zap.Error(err), zap.ByteString("frame", data))
			continue
		}
		send(envelopeMsg{env: env})
	}
}

func (c *Conn) writeEnvelope(msgType string, payload any) error {
	env, err := NewEnvelope(msgType, payload)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("send %s: connection closed", msgType)
	}
	if err := c.ws.WriteJSON(env); err != nil {
		return fmt.Errorf("send %s: %w", msgType, err)
	}
	return nil
}

// SendQuery submits one user query to the agent.
func (c *Conn) SendQuery(text string) error {
	return c.writeEnvelope(TypeQuery, QueryPayload{Text: text})
}

// SendList requests a listing over the socket (used for the root).
func (c *Conn) SendList(path string) error {
	return c.writeEnvelope(TypeList, ListPayload{Path: path})
}

// SendVisualize asks the backend to shape entries into display cards.
func (c *Conn) SendVisualize(items []FsEntry) error {
	return c.writeEnvelope(TypeVisualize, VisualizePayload{Items: items})
}

// Close performs the close handshake and tears the socket down.
func (c *Conn) Close() error {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil
	}
	c.closed = true
	deadline := time.Now().Add(time.Second)
	_ = c.ws.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), deadline)
	c.mu.Unlock()
	return c.ws.Close()
}
