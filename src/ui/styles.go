package ui

import "github.com/charmbracelet/lipgloss"

type Styles struct {
	Header       lipgloss.Style
	Subtitle     lipgloss.Style
	ListHeader   lipgloss.Style
	ListSelected lipgloss.Style
	Textarea     lipgloss.Style
	Help         lipgloss.Style
	Footer       lipgloss.Style
	Accent       lipgloss.Style
	Error        lipgloss.Style
	Success      lipgloss.Style
	Thinking     lipgloss.Style
	Status       lipgloss.Style
	Highlight    lipgloss.Style
	Pane         lipgloss.Style
	PaneFocused  lipgloss.Style
	Subtle       lipgloss.Style
}

func NewStyles() Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#555")).
			Faint(true).
			Padding(0, 1),

		Subtitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Padding(0, 1),

		ListHeader: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFFF")).
			Bold(true),

		ListSelected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00E6B8")).
			Bold(true),

		Textarea: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FAFFF")),

		Help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")),

		Footer: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#777777")).
			Faint(true),

		Accent: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#5FAFFF")),

		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5C5C")).
			Bold(true),

		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")).
			Bold(true),

		Thinking: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3DDC97")),

		Status: lipgloss.NewStyle().
			Background(lipgloss.Color("#5FAFFF")).
			Foreground(lipgloss.Color("#FFFFFF")).
			Padding(0, 1),

		Highlight: lipgloss.NewStyle().
			Background(lipgloss.Color("#FFD75F")).
			Foreground(lipgloss.Color("#000000")),

		Pane: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#444444")).
			Padding(0, 1),

		PaneFocused: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#5FAFFF")).
			Padding(0, 1),

		Subtle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")),
	}
}
