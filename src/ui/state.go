package ui

import (
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
)

// Focus marks which pane receives key input.
type Focus int

const (
	FocusInput Focus = iota
	FocusTree
)

// State contains all the data required to render the UI.
// This decouples the renderer from the main application logic.
type State struct {
	Focus       Focus
	ClientID    string
	Connected   bool
	IsStreaming bool
	RootPath    string
	TreeView    string // pre-rendered tree pane content

	// Bubble Tea models
	TextArea textarea.Model
	Viewport viewport.Model
	Spinner  spinner.Model

	Width  int
	Height int
}
