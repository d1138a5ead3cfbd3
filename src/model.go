package src

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/datadeck/datadeck/src/ui"
)

// listingMsg delivers the outcome of one directory fetch.
type listingMsg struct {
	node    *FsNode
	path    string
	token   uint64
	entries []FsEntry
	err     error
}

// unhighlightMsg fires when a transient highlight expires. The generation
// lets a re-highlight within the window invalidate the older timer.
type unhighlightMsg struct {
	node *FsNode
	gen  uint64
}

// sendResultMsg reports the outcome of one outgoing envelope.
type sendResultMsg struct {
	what string
	err  error
}

type model struct {
	cfg    Config
	ctrl   *Controller
	conn   *Conn
	lister Lister
	log    *zap.Logger

	focus      ui.Focus
	cursor     int // index into the tree's visible rows
	connected  bool
	connClosed bool

	// reveal in progress for /jump; empty when idle
	revealTarget string
	revealSteps  int

	textarea textarea.Model
	viewport viewport.Model
	spinner  spinner.Model
	style    ui.Styles
	width    int
	height   int

	Program *tea.Program
}

func NewModel(cfg Config, ctrl *Controller, conn *Conn, lister Lister, log *zap.Logger) *model {
	ta := textarea.New()
	ta.Placeholder = "Ask the agent, or /jump <path>..."
	ta.Focus()
	ta.SetHeight(3)

	st := ui.NewStyles()

	vp := viewport.New(0, 0)
	vp.SetContent("Welcome to Datadeck. Ask the agent anything about your data.")

	s := spinner.New()
	s.Spinner = spinner.Line
	s.Style = st.Thinking

	return &model{
		cfg:      cfg,
		ctrl:     ctrl,
		conn:     conn,
		lister:   lister,
		log:      log,
		focus:    ui.FocusInput,
		textarea: ta,
		viewport: vp,
		spinner:  s,
		style:    st,
	}
}

// Init requests the root listing over the socket.
func (m *model) Init() tea.Cmd {
	return m.sendCmd("list", func() error {
		return m.conn.SendList(m.cfg.RootPath)
	})
}

// sendCmd runs one outgoing write off the update loop.
func (m *model) sendCmd(what string, send func() error) tea.Cmd {
	return func() tea.Msg {
		return sendResultMsg{what: what, err: send()}
	}
}

// listDirCmd fetches one directory for the node holding token.
func (m *model) listDirCmd(node *FsNode, token uint64) tea.Cmd {
	path := node.Path
	return func() tea.Msg {
		entries, err := m.lister.ListDir(context.Background(), path)
		return listingMsg{node: node, path: path, token: token, entries: entries, err: err}
	}
}

// unhighlightCmd schedules the highlight expiry for one node generation.
func (m *model) unhighlightCmd(node *FsNode, gen uint64) tea.Cmd {
	return tea.Tick(m.cfg.HighlightDelay(), func(time.Time) tea.Msg {
		return unhighlightMsg{node: node, gen: gen}
	})
}

// syncViewport re-renders the transcript into the viewport and follows the
// tail.
func (m *model) syncViewport() {
	m.viewport.SetContent(renderTranscript(m.ctrl.Transcript.Messages(), m.style))
	m.viewport.GotoBottom()
}

func (m *model) clampCursor() {
	if n := len(m.ctrl.Tree.Visible()); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *model) streaming() bool {
	return m.ctrl.Agg.State() == StateStreaming
}

func firstWord(s string) (string, string) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		return s[:i], strings.TrimSpace(s[i+1:])
	}
	return s, ""
}
