package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

const Logo = `
██████╗  █████╗ ████████╗ █████╗ ██████╗ ███████╗ ██████╗██╗  ██╗
██╔══██╗██╔══██╗╚══██╔══╝██╔══██╗██╔══██╗██╔════╝██╔════╝██║ ██╔╝
██║  ██║███████║   ██║   ███████║██║  ██║█████╗  ██║     █████╔╝
██║  ██║██╔══██║   ██║   ██╔══██║██║  ██║██╔══╝  ██║     ██╔═██╗
██████╔╝██║  ██║   ██║   ██║  ██║██████╔╝███████╗╚██████╗██║  ██╗
╚═════╝ ╚═╝  ╚═╝   ╚═╝   ╚═╝  ╚═╝╚═════╝ ╚══════╝ ╚═════╝╚═╝  ╚═╝
                D A T A  ·  A G E N T  ·  C O N S O L E
`

// Render generates the full UI string based on the provided state.
func Render(s State, styles Styles) string {
	header := renderHeader(styles)
	body := renderBody(s, styles)
	footer := renderFooter(s, styles)

	return lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
}

func renderHeader(styles Styles) string {
	logoStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FAFFF")).Bold(true).
		Background(lipgloss.Color("#000000")).UnsetBackground()
	subtitle := styles.Header.Render("Datadeck")
	styledLogo := logoStyle.Render(Logo)

	return lipgloss.JoinVertical(lipgloss.Left, styledLogo, subtitle)
}

func renderFooter(s State, styles Styles) string {
	help := "ctrl+c: quit | tab: switch pane"
	if s.Focus == FocusTree {
		help += " | ↑/↓: navigate | enter: toggle"
	} else {
		help += " | enter: send | /jump /visualize /history /refresh"
	}
	return styles.Footer.Render(help)
}

func renderBody(s State, styles Styles) string {
	transcriptPane := styles.Pane
	treePane := styles.Pane
	if s.Focus == FocusInput {
		transcriptPane = styles.PaneFocused
	} else {
		treePane = styles.PaneFocused
	}

	left := transcriptPane.Render(s.Viewport.View())
	right := treePane.Render(lipgloss.JoinVertical(lipgloss.Left,
		styles.ListHeader.Render(fmt.Sprintf("📁 %s", s.RootPath)),
		s.TreeView,
	))
	panes := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	return lipgloss.JoinVertical(lipgloss.Left,
		panes,
		renderStatus(s, styles),
		s.TextArea.View(),
	)
}

func renderStatus(s State, styles Styles) string {
	conn := "OFFLINE"
	if s.Connected {
		conn = "LIVE"
	}
	status := styles.Status.Render(fmt.Sprintf("%s · %s", conn, shortID(s.ClientID)))
	if !s.IsStreaming {
		return status
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		status,
		styles.Thinking.Render(fmt.Sprintf(" %s streaming", s.Spinner.View())),
	)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
