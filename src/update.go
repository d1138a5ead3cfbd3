package src

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/datadeck/datadeck/src/ui"
)

const treePaneWidth = 36

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		headerHeight := lipgloss.Height(ui.Logo) + 1
		footerHeight := 1
		m.textarea.SetWidth(m.width - 4)
		m.viewport.Width = m.width - treePaneWidth - 6
		m.viewport.Height = m.height - headerHeight - footerHeight - m.textarea.Height() - 5
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case envelopeMsg:
		return m.handleEnvelope(msg.env)

	case listingMsg:
		return m.handleListing(msg)

	case unhighlightMsg:
		m.ctrl.Tree.ClearHighlight(msg.node, msg.gen)
		return m, nil

	case sendResultMsg:
		if msg.err != nil {
			m.log.Warn("send failed", zap.String("what", msg.what), zap.Error(msg.err))
			m.ctrl.ReportError(fmt.Sprintf("send %s failed: %v", msg.what, msg.err))
			m.syncViewport()
		}
		return m, nil

	case connClosedMsg:
		if !m.connClosed {
			m.connClosed = true
			m.connected = false
			if msg.err != nil {
				m.ctrl.ReportError(fmt.Sprintf("connection lost: %v", msg.err))
			} else {
				m.ctrl.ReportError("connection closed")
			}
			m.syncViewport()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.streaming() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	if m.focus == ui.FocusInput {
		var taCmd, vpCmd tea.Cmd
		m.textarea, taCmd = m.textarea.Update(msg)
		m.viewport, vpCmd = m.viewport.Update(msg)
		return m, tea.Batch(taCmd, vpCmd)
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {

	case "ctrl+c":
		return m, tea.Quit

	case "tab":
		if m.focus == ui.FocusInput {
			m.focus = ui.FocusTree
			m.textarea.Blur()
		} else {
			m.focus = ui.FocusInput
			m.textarea.Focus()
		}
		return m, nil

	case "up":
		if m.focus == ui.FocusTree {
			if m.cursor > 0 {
				m.cursor--
			}
			return m, nil
		}

	case "down":
		if m.focus == ui.FocusTree {
			m.cursor++
			m.clampCursor()
			return m, nil
		}

	case "enter":
		if m.focus == ui.FocusTree {
			return m.toggleUnderCursor()
		}
		raw := strings.TrimSpace(m.textarea.Value())
		if raw == "" {
			return m, nil
		}
		m.textarea.Reset()
		return m.submit(raw)
	}

	if m.focus == ui.FocusInput {
		var cmd tea.Cmd
		m.textarea, cmd = m.textarea.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) toggleUnderCursor() (tea.Model, tea.Cmd) {
	visible := m.ctrl.Tree.Visible()
	if m.cursor >= len(visible) {
		return m, nil
	}
	node := visible[m.cursor].Node
	outcome, token := m.ctrl.Tree.Toggle(node)
	switch outcome {
	case TogglePending:
		return m, m.listDirCmd(node, token)
	case ToggleCollapsed:
		m.clampCursor()
	}
	return m, nil
}

// submit routes one input line: slash commands locally, anything else to
// the agent as a query.
func (m *model) submit(raw string) (tea.Model, tea.Cmd) {
	cmd, rest := firstWord(raw)
	switch cmd {

	case "/jump":
		if rest == "" {
			m.ctrl.ReportError("usage: /jump <path>")
			m.syncViewport()
			return m, nil
		}
		return m.startReveal(rest)

	case "/visualize":
		if !m.ctrl.Tree.HasRoots() {
			m.ctrl.ReportError("nothing to visualize: no listing yet")
			m.syncViewport()
			return m, nil
		}
		items := m.ctrl.Tree.RootEntries()
		return m, m.sendCmd("visualize", func() error {
			return m.conn.SendVisualize(items)
		})

	case "/history":
		n := 20
		if rest != "" {
			if v, err := strconv.Atoi(rest); err == nil && v > 0 {
				n = v
			}
		}
		if err := m.ctrl.RecentHistory(n); err != nil {
			m.ctrl.ReportError(fmt.Sprintf("history unavailable: %v", err))
		}
		m.syncViewport()
		return m, nil

	case "/refresh":
		return m, m.sendCmd("list", func() error {
			return m.conn.SendList(m.cfg.RootPath)
		})
	}

	m.ctrl.SubmitQuery(raw)
	m.syncViewport()
	send := m.sendCmd("query", func() error {
		return m.conn.SendQuery(raw)
	})
	return m, tea.Batch(send, m.spinner.Tick)
}

func (m *model) handleEnvelope(env Envelope) (tea.Model, tea.Cmd) {
	wasStreaming := m.streaming()
	if env.Type == TypeConnected {
		m.connected = true
	}
	m.ctrl.HandleEnvelope(env)
	m.clampCursor()
	m.syncViewport()

	var cmds []tea.Cmd
	// A fresh root listing may unblock an in-progress /jump.
	if env.Type == TypeListResult && m.revealTarget != "" {
		cmds = append(cmds, m.stepReveal())
	}
	if !wasStreaming && m.streaming() {
		cmds = append(cmds, m.spinner.Tick)
	}
	return m, tea.Batch(cmds...)
}

func (m *model) handleListing(msg listingMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Expansion failures are logged, not alerted; the node reverts to
		// collapsed and can be toggled again.
		m.ctrl.Tree.FailListing(msg.node, msg.token)
		m.log.Warn("listing failed", zap.String("path", msg.path), zap.Error(msg.err))
		if m.revealTarget != "" {
			return m, m.abandonReveal(m.revealTarget)
		}
		return m, nil
	}

	if err := m.ctrl.Tree.ApplyListing(msg.node, msg.token, msg.entries); err != nil {
		m.log.Debug("discarding stale listing",
			zap.String("path", msg.path), zap.Uint64("token", msg.token))
		return m, nil
	}
	m.clampCursor()

	if m.revealTarget != "" {
		return m, m.stepReveal()
	}
	return m, nil
}

// startReveal begins resolving a /jump target: an immediate match is
// highlighted; otherwise the nearest collapsed ancestor is expanded and
// resolution continues as listings arrive.
func (m *model) startReveal(target string) (tea.Model, tea.Cmd) {
	m.revealTarget = target
	m.revealSteps = strings.Count(target, "/") + 2
	return m, m.stepReveal()
}

func (m *model) stepReveal() tea.Cmd {
	target := m.revealTarget
	if target == "" {
		return nil
	}

	if n := m.ctrl.Tree.FindVisible(target); n != nil {
		m.revealTarget = ""
		gen := m.ctrl.Tree.Highlight(n)
		m.moveCursorTo(n)
		return m.unhighlightCmd(n, gen)
	}

	if m.revealSteps <= 0 {
		return m.abandonReveal(target)
	}
	m.revealSteps--

	anc := m.ctrl.Tree.NextRevealAncestor(target)
	if anc == nil {
		return m.abandonReveal(target)
	}
	_, token := m.ctrl.Tree.Toggle(anc)
	return m.listDirCmd(anc, token)
}

func (m *model) abandonReveal(target string) tea.Cmd {
	m.revealTarget = ""
	m.ctrl.ReportError("path not found: " + target)
	m.syncViewport()
	return nil
}

func (m *model) moveCursorTo(n *FsNode) {
	for i, vn := range m.ctrl.Tree.Visible() {
		if vn.Node == n {
			m.cursor = i
			return
		}
	}
}
