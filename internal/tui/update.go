package tui

import (
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"histview/internal/model"
	"histview/internal/plot"
)

// MsgTreeReady indicates that the file has been loaded.
type MsgTreeReady struct {
	Root model.Container
}

// MsgError indicates loading failed.
type MsgError error

// Update handles events.
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.Help.Width = msg.Width
		return m, nil

	case MsgTreeReady:
		m.Loading = false
		m.Root = msg.Root
		m.Panel.SetRoot(msg.Root)
		m.refresh()
		return m, nil

	case MsgError:
		m.Err = msg
		m.Loading = false
		return m, nil

	case tea.KeyMsg:
		if m.InputMode {
			switch msg.Type {
			case tea.KeyEnter:
				m.InputMode = false
				m.InputBuffer.Blur()
				return m, nil
			case tea.KeyEsc:
				m.InputMode = false
				m.InputBuffer.Blur()
				m.InputBuffer.SetValue("")
				m.Filter = ""
				m.refresh()
				return m, nil
			}
			m.InputBuffer, cmd = m.InputBuffer.Update(msg)
			m.Filter = m.InputBuffer.Value()
			m.refresh()
			return m, cmd
		}

		if m.ShowHelp {
			// any key closes the dialog, quit still quits
			if key.Matches(msg, m.Keys.Quit) {
				return m, tea.Quit
			}
			m.ShowHelp = false
			return m, nil
		}

		switch {
		case key.Matches(msg, m.Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.Keys.Clear):
			if m.Filter != "" {
				m.InputBuffer.SetValue("")
				m.Filter = ""
				m.refresh()
				return m, nil
			}
			m.Panel.Clear()
		case key.Matches(msg, m.Keys.Up):
			if m.SelectedIdx > 0 {
				m.SelectedIdx--
				m.plotCursor()
			}
		case key.Matches(msg, m.Keys.Down):
			if m.SelectedIdx < len(m.Nodes)-1 {
				m.SelectedIdx++
				m.plotCursor()
			}
		case key.Matches(msg, m.Keys.Expand):
			if n, ok := m.cursor(); ok && n.IsContainer() {
				m.Expanded[n.Path.String()] = true
				m.refresh()
			}
		case key.Matches(msg, m.Keys.Collapse):
			m.collapse()
		case key.Matches(msg, m.Keys.Select):
			n, ok := m.cursor()
			if !ok {
				break
			}
			if n.IsContainer() {
				p := n.Path.String()
				m.Expanded[p] = !m.Expanded[p]
				m.refresh()
				break
			}
			m.selectPath(n.Path)
		case key.Matches(msg, m.Keys.Search):
			m.InputMode = true
			m.InputBuffer.Focus()
			return m, textinput.Blink
		case key.Matches(msg, m.Keys.Theme):
			m.Theme = plot.NextTheme(m.Theme)
		case key.Matches(msg, m.Keys.Help):
			m.ShowHelp = true
		}
	}

	return m, cmd
}

func (m AppModel) cursor() (model.Node, bool) {
	if m.SelectedIdx < 0 || m.SelectedIdx >= len(m.Nodes) {
		return model.Node{}, false
	}
	return m.Nodes[m.SelectedIdx], true
}

// plotCursor follows the cursor: leaves are plotted as soon as they are
// highlighted, containers leave the panel alone.
func (m *AppModel) plotCursor() {
	if n, ok := m.cursor(); ok && !n.IsContainer() {
		m.selectPath(n.Path)
	}
}

func (m *AppModel) selectPath(p model.Path) {
	if err := m.Panel.Select(p.String()); err != nil {
		m.logger.Debug("select", slog.String("path", p.String()), slog.String("error", err.Error()))
	}
}

// collapse closes the container under the cursor, or jumps to the parent
// of a leaf or an already closed container.
func (m *AppModel) collapse() {
	n, ok := m.cursor()
	if !ok {
		return
	}
	if n.IsContainer() && m.Expanded[n.Path.String()] {
		delete(m.Expanded, n.Path.String())
		m.refresh()
		return
	}
	if len(n.Path) < 2 {
		return
	}
	parent := n.Path[:len(n.Path)-1].String()
	for i, cand := range m.Nodes {
		if cand.Path.String() == parent {
			m.SelectedIdx = i
			return
		}
	}
}

// refresh rebuilds the visible node list from the tree, the expanded set
// and the filter, keeping the cursor in range.
func (m *AppModel) refresh() {
	if m.Root == nil {
		m.Nodes = nil
		m.SelectedIdx = 0
		return
	}

	term := strings.ToLower(m.Filter)
	if term == "" {
		m.Nodes = model.Flatten(m.Root, func(p model.Path) bool { return m.Expanded[p.String()] })
	} else {
		// Filtering searches the whole tree, expanded or not.
		var matched []model.Node
		for _, n := range model.Flatten(m.Root, nil) {
			if strings.Contains(strings.ToLower(n.Object.Name()), term) {
				matched = append(matched, n)
			}
		}
		m.Nodes = matched
	}

	if m.SelectedIdx >= len(m.Nodes) {
		m.SelectedIdx = len(m.Nodes) - 1
	}
	if m.SelectedIdx < 0 {
		m.SelectedIdx = 0
	}
}

// LoadCmd runs the loader in the background.
func LoadCmd(load func() (model.Container, error)) tea.Cmd {
	return func() tea.Msg {
		root, err := load()
		if err != nil {
			return MsgError(err)
		}
		return MsgTreeReady{Root: root}
	}
}
