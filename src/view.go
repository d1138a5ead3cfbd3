package src

import (
	"github.com/datadeck/datadeck/src/ui"
)

func (m *model) View() string {
	state := ui.State{
		Focus:       m.focus,
		ClientID:    m.ctrl.ClientID,
		Connected:   m.connected,
		IsStreaming: m.streaming(),
		RootPath:    m.cfg.RootPath,
		TreeView:    renderTree(m.ctrl.Tree, m.cursor, m.focus == ui.FocusTree, m.style),
		TextArea:    m.textarea,
		Viewport:    m.viewport,
		Spinner:     m.spinner,
		Width:       m.width,
		Height:      m.height,
	}
	return ui.Render(state, m.style)
}
