package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

func testState() State {
	vp := viewport.New(80, 20)
	ta := textarea.New()
	ta.SetWidth(80)
	sp := spinner.New()

	return State{
		Focus:    FocusInput,
		ClientID: "0f2b7c1e-aaaa-bbbb-cccc-000000000000",
		RootPath: "/data",
		TreeView: "▸ data/",
		Viewport: vp,
		TextArea: ta,
		Spinner:  sp,
	}
}

func TestRenderContainsHeader(t *testing.T) {
	output := Render(testState(), NewStyles())

	if !strings.Contains(output, "Datadeck") {
		t.Errorf("Expected output to contain header text")
	}
}

func TestRenderFooterContainsQuit(t *testing.T) {
	output := Render(testState(), NewStyles())

	if !strings.Contains(output, "ctrl+c: quit") {
		t.Errorf("Expected footer to contain quit instruction")
	}
}

func TestRenderFooterFollowsFocus(t *testing.T) {
	styles := NewStyles()

	s := testState()
	output := Render(s, styles)
	if !strings.Contains(output, "enter: send") {
		t.Errorf("Expected input-focus footer to mention sending")
	}

	s.Focus = FocusTree
	output = Render(s, styles)
	if !strings.Contains(output, "enter: toggle") {
		t.Errorf("Expected tree-focus footer to mention toggling")
	}
}

func TestRenderShowsConnectionState(t *testing.T) {
	styles := NewStyles()

	s := testState()
	output := Render(s, styles)
	if !strings.Contains(output, "OFFLINE") {
		t.Errorf("Expected status to show OFFLINE before the handshake")
	}

	s.Connected = true
	output = Render(s, styles)
	if !strings.Contains(output, "LIVE") {
		t.Errorf("Expected status to show LIVE after the handshake")
	}
}

func TestRenderShowsShortClientID(t *testing.T) {
	output := Render(testState(), NewStyles())

	if !strings.Contains(output, "0f2b7c1e") {
		t.Errorf("Expected status to show the short client id")
	}
	if strings.Contains(output, "0f2b7c1e-aaaa") {
		t.Errorf("Expected the client id to be truncated")
	}
}

func TestRenderStreamingIndicator(t *testing.T) {
	s := testState()
	s.IsStreaming = true

	output := Render(s, NewStyles())
	if !strings.Contains(output, "streaming") {
		t.Errorf("Expected streaming indicator while a session is open")
	}
}

func TestRenderShowsTreePane(t *testing.T) {
	output := Render(testState(), NewStyles())

	if !strings.Contains(output, "▸ data/") {
		t.Errorf("Expected tree pane content in output")
	}
	if !strings.Contains(output, "/data") {
		t.Errorf("Expected root path header in tree pane")
	}
}

func TestNewStyles(t *testing.T) {
	styles := NewStyles()

	if styles.Header.GetPaddingLeft() < 0 {
		t.Errorf("Header style should be initialized")
	}
	if styles.Accent.GetForeground() == nil {
		t.Errorf("Accent style should have a foreground color")
	}
}
