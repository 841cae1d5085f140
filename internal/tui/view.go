package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"histview/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	plottedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	borderColor = lipgloss.Color("63")
	activeColor = lipgloss.Color("205")
)

func (m AppModel) View() string {
	if m.Loading {
		return fmt.Sprintf("\n  Loading %s... please wait.\n", m.Source)
	}
	if m.Err != nil {
		return fmt.Sprintf("\n  Error: %v\n\n  Press q to quit.\n", m.Err)
	}
	if m.ShowHelp {
		return m.renderHelpDialog()
	}

	width := m.WindowSize.Width
	height := m.WindowSize.Height
	if width == 0 || height == 0 {
		width, height = ConsoleSize()
	}

	// Left column is a third of the screen; the plot gets the rest.
	leftWidth := width / 3
	if leftWidth < 20 {
		leftWidth = 20
	}
	rightWidth := width - leftWidth - 2 // left border pair
	if rightWidth < 12 {
		rightWidth = 12
	}

	// Total box height (including borders), one footer line
	boxHeight := height - 1
	if boxHeight < 6 {
		boxHeight = 6
	}
	interiorHeight := boxHeight - 2

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(activeColor).
		Render(m.renderTree(leftWidth, interiorHeight))

	right := m.Panel.Render(rightWidth, boxHeight, m.Theme)

	footer := m.Help.ShortHelpView(m.Keys.ShortHelp())
	if m.InputMode || m.Filter != "" {
		footer = "Filter: " + m.InputBuffer.View()
	}
	footer = dimStyle.Render(fmt.Sprintf("theme: %s  ", m.Theme)) + footer

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + "\n" + footer
}

func (m AppModel) renderTree(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(runewidth.Truncate(m.Source, width-2, "…")))
	b.WriteString("\n\n") // Title + blank line

	if len(m.Nodes) == 0 {
		if m.Filter != "" {
			b.WriteString(dimStyle.Render("no match for " + m.Filter))
		} else {
			b.WriteString(dimStyle.Render("(empty file)"))
		}
		return b.String()
	}

	// Windowing: keep the cursor in the middle of the visible rows.
	visibleItems := height - 2
	if visibleItems < 1 {
		visibleItems = 1
	}
	startIdx := 0
	endIdx := len(m.Nodes)
	if len(m.Nodes) > visibleItems {
		if m.SelectedIdx >= visibleItems/2 {
			startIdx = m.SelectedIdx - visibleItems/2
		}
		if startIdx+visibleItems > len(m.Nodes) {
			startIdx = len(m.Nodes) - visibleItems
		}
		endIdx = startIdx + visibleItems
	}

	plotted := m.Panel.Path().String()
	for i := startIdx; i < endIdx; i++ {
		n := m.Nodes[i]
		indent := strings.Repeat("  ", n.Depth)
		if m.Filter != "" {
			indent = ""
		}
		name := n.Object.Name()
		if m.Filter != "" {
			name = n.Path.String()
		}
		line := fmt.Sprintf("%s%s %s", indent, model.IconFor(n.Object, m.Expanded[n.Path.String()]), name)
		line = runewidth.Truncate(line, width, "…")

		style := normalStyle
		switch {
		case i == m.SelectedIdx:
			style = selectedStyle
		case plotted != "" && n.Path.String() == plotted:
			style = plottedStyle
		case n.IsContainer():
			style = dirStyle
		}
		b.WriteString(style.Render(line))
		if i < endIdx-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m AppModel) renderHelpDialog() string {
	w, h := m.WindowSize.Width, m.WindowSize.Height
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 60 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}

	full := m.Help
	full.ShowAll = true
	content := titleStyle.Render("histview "+model.Version) + "\n\n" +
		"Browse the tree on the left; highlighted histograms\n" +
		"and branches are plotted on the right.\n\n" +
		full.FullHelpView(m.Keys.FullHelp()) + "\n\n" +
		dimStyle.Render("Press any key to close")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m AppModel) Init() tea.Cmd {
	if m.load == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, LoadCmd(m.load))
}
