package src

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

func TestConnReadPumpAndSend(t *testing.T) {
	received := make(chan Envelope, 1)
	upgrader := websocket.Upgrader{}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()

		frames := []string{
			`{"type": "connected", "payload": {"client_id": "c1"}}`,
			`definitely not json`,
			`{"type": "agent_stream", "payload": {"content": "hi"}}`,
		}
		for _, f := range frames {
			if err := ws.WriteMessage(websocket.TextMessage, []byte(f)); err != nil {
				t.Errorf("write: %v", err)
				return
			}
		}

		var env Envelope
		if err := ws.ReadJSON(&env); err != nil {
			t.Errorf("read query: %v", err)
			return
		}
		received <- env
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := DialBackend(url, zap.NewNop())
	if err != nil {
		t.Fatalf("DialBackend: %v", err)
	}
	defer conn.Close()

	msgs := make(chan tea.Msg, 8)
	go conn.ReadPump(func(msg tea.Msg) { msgs <- msg })

	// Malformed frame is dropped, so exactly two envelopes arrive.
	wantTypes := []string{TypeConnected, TypeAgentStream}
	for _, want := range wantTypes {
		select {
		case msg := <-msgs:
			env, ok := msg.(envelopeMsg)
			if !ok {
				t.Fatalf("unexpected message %T", msg)
			}
			if env.env.Type != want {
				t.Fatalf("got type %q, want %q", env.env.Type, want)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}

	if err := conn.SendQuery("hello"); err != nil {
		t.Fatalf("SendQuery: %v", err)
	}
	select {
	case env := <-received:
		if env.Type != TypeQuery {
			t.Fatalf("server got type %q, want query", env.Type)
		}
		var q QueryPayload
		if err := json.Unmarshal(env.Payload, &q); err != nil {
			t.Fatalf("payload decode: %v", err)
		}
		if q.Text != "hello" {
			t.Fatalf("unexpected text: %q", q.Text)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("server never received the query")
	}
}

func TestConnCloseSilencesPump(t *testing.T) {
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		// Hold the socket open until the client hangs up.
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				ws.Close()
				return
			}
		}
	}))
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, err := DialBackend(url, zap.NewNop())
	if err != nil {
		t.Fatalf("DialBackend: %v", err)
	}

	msgs := make(chan tea.Msg, 1)
	go conn.ReadPump(func(msg tea.Msg) { msgs <- msg })

	if err := conn.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	select {
	case msg := <-msgs:
		closed, ok := msg.(connClosedMsg)
		if !ok {
			t.Fatalf("unexpected message %T", msg)
		}
		if closed.err != nil {
			t.Fatalf("deliberate close must not report an error, got %v", closed.err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("pump never reported the close")
	}

	if err := conn.SendQuery("late"); err == nil {
		t.Fatalf("send after close must fail")
	}
}
