package tui

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"histview/internal/model"
	"histview/internal/plot"
)

// Options configure a browser.
type Options struct {
	Source string                          // shown in the header
	Load   func() (model.Container, error) // runs off the UI goroutine
	Theme  string
	Logger *slog.Logger
}

// AppModel holds the TUI state.
type AppModel struct {
	// Data
	Root    model.Container
	Source  string
	Loading bool
	Err     error

	// UI State
	Nodes       []model.Node
	Expanded    map[string]bool
	SelectedIdx int
	WindowSize  tea.WindowSizeMsg
	Theme       string
	ShowHelp    bool

	// Search State
	InputMode   bool
	InputBuffer textinput.Model
	Filter      string

	// Components
	Panel *PlotPanel
	Keys  KeyMap
	Help  help.Model

	load   func() (model.Container, error)
	logger *slog.Logger
}

// InitialModel returns the initial state.
func InitialModel(opts Options) AppModel {
	ti := textinput.New()
	ti.Placeholder = "Object name..."
	ti.CharLimit = 64
	ti.Width = 20

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	theme := opts.Theme
	if theme == "" {
		theme = plot.DefaultTheme
	}

	return AppModel{
		Source:      opts.Source,
		Loading:     true,
		Expanded:    make(map[string]bool),
		Theme:       theme,
		InputBuffer: ti,
		Panel:       NewPlotPanel(nil, logger),
		Keys:        DefaultKeyMap(),
		Help:        help.New(),
		load:        opts.Load,
		logger:      logger,
	}
}
