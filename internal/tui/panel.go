package tui

import (
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	pkgerrors "github.com/pkg/errors"

	"histview/internal/model"
	"histview/internal/plot"
	"histview/internal/render"
)

// PanelState tags what the plot panel currently shows.
type PanelState int

const (
	// StateEmpty: nothing has been requested yet.
	StateEmpty PanelState = iota
	// StateNoSelection: the selection was explicitly cleared.
	StateNoSelection
	StateResolved
	StateFailed
)

func (s PanelState) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateNoSelection:
		return "no-selection"
	case StateResolved:
		return "resolved"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

const logo = `┬ ┬┬┌─┐┌┬┐┬  ┬┬┌─┐┬ ┬
├─┤│└─┐ │ └┐┌┘│├┤ │││
┴ ┴┴└─┘ ┴  └┘ ┴└─┘└┴┘
 histograms in your terminal`

var (
	noSelectionBorder = lipgloss.Color("1")
	emptyBorder       = lipgloss.Color("2")
	failedBorder      = lipgloss.Color("1")

	messageStyle = lipgloss.NewStyle().Bold(true)
	traceStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

// PlotPanel decides what the right hand panel shows for the current
// selection. All methods run on the UI goroutine.
type PlotPanel struct {
	root    model.Container
	state   PanelState
	path    model.Path
	item    model.Object
	diag    *render.Diagnostic
	builder *plot.Builder
	logger  *slog.Logger
}

// NewPlotPanel returns a panel in the empty state.
func NewPlotPanel(root model.Container, logger *slog.Logger) *PlotPanel {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &PlotPanel{root: root, state: StateEmpty, builder: plot.NewBuilder(), logger: logger}
}

func (p *PlotPanel) State() PanelState { return p.state }

// Path is the last selected path, nil when nothing is selected.
func (p *PlotPanel) Path() model.Path { return p.path }

// Item is the resolved object, nil outside StateResolved.
func (p *PlotPanel) Item() model.Object { return p.item }

// Diagnostic is the last captured failure, nil outside StateFailed.
func (p *PlotPanel) Diagnostic() *render.Diagnostic { return p.diag }

// SetRoot swaps the tree selections resolve against and resets the panel.
func (p *PlotPanel) SetRoot(root model.Container) {
	p.root = root
	p.reset(StateEmpty)
}

// SetSelection is Select for a non-nil path and Clear for nil.
func (p *PlotPanel) SetSelection(path *string) error {
	if path == nil {
		p.Clear()
		return nil
	}
	return p.Select(*path)
}

// Clear switches to the "no plot selected" panel.
func (p *PlotPanel) Clear() {
	p.reset(StateNoSelection)
}

// Select resolves a colon-delimited path. On failure the panel shows the
// resolution error and the error is returned as well.
func (p *PlotPanel) Select(path string) error {
	segs := model.ParsePath(path)
	if p.root == nil {
		err := pkgerrors.WithStack(&model.ResolutionError{Path: segs, Index: -1, Err: model.ErrNotFound})
		p.fail(err)
		return err
	}
	item, err := model.Resolve(p.root, segs)
	if err != nil {
		p.logger.Warn("selection failed", slog.String("path", path), slog.String("error", err.Error()))
		p.fail(err)
		p.path = segs
		return err
	}
	p.reset(StateResolved)
	p.path = segs
	p.item = item
	return nil
}

// SetDiagnostic forces the failed state with err.
func (p *PlotPanel) SetDiagnostic(err error) {
	if err == nil {
		return
	}
	p.fail(err)
}

func (p *PlotPanel) reset(s PanelState) {
	p.state = s
	p.path = nil
	p.item = nil
	p.diag = nil
}

func (p *PlotPanel) fail(err error) {
	p.reset(StateFailed)
	p.diag = render.Capture(err)
}

// Render draws the panel at width x height cells, borders included. Sizes
// of zero or less use the console size. A draw failure moves the panel to
// the failed state; later renders show the same diagnostic without
// drawing again.
func (p *PlotPanel) Render(width, height int, theme string) string {
	if width <= 0 || height <= 0 {
		cw, ch := ConsoleSize()
		if width <= 0 {
			width = cw
		}
		if height <= 0 {
			height = ch
		}
	}

	switch p.state {
	case StateNoSelection:
		return centered(width, height, noSelectionBorder, messageStyle.Render("No plot selected!"))
	case StateEmpty:
		return centered(width, height, emptyBorder, lipgloss.NewStyle().Foreground(emptyBorder).Render(logo))
	case StateResolved:
		c, err := render.BuildCanvas(p.builder, p.item, width-2, height-2, theme)
		if err == nil {
			return box(width, height, lipgloss.NewStyle()).Render(c.String())
		}
		p.logger.Error("render failed", slog.String("path", p.path.String()), slog.String("error", err.Error()))
		path := p.path
		p.fail(err)
		p.path = path
	}
	return p.renderFailed(width, height)
}

func (p *PlotPanel) renderFailed(width, height int) string {
	lines := p.diag.Lines()
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if i == len(lines)-1 {
			b.WriteString(faultStyle.Render(l))
		} else {
			b.WriteString(traceStyle.Render(l))
		}
	}
	inner := max(width-4, 1)
	body := lipgloss.NewStyle().Width(inner).MaxWidth(inner).MaxHeight(max(height-2, 1)).Render(b.String())
	return box(width, height, lipgloss.NewStyle().Foreground(failedBorder)).Padding(0, 1).Render(body)
}

func box(width, height int, border lipgloss.Style) lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border.GetForeground()).
		Width(max(width-2, 1)).
		Height(max(height-2, 1))
}

func centered(width, height int, border lipgloss.Color, content string) string {
	w, h := max(width-2, 1), max(height-2, 1)
	body := lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, content)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		MaxWidth(max(width, 3)).
		Render(body)
}

// ConsoleSize reports the terminal size: the tty first, then COLUMNS and
// LINES, then 80x24.
func ConsoleSize() (width, height int) {
	w, h, err := term.GetSize(os.Stdout.Fd())
	if err == nil && w > 0 && h > 0 {
		return w, h
	}
	return envSize()
}

// envSize is the COLUMNS x LINES size, 80x24 for anything unset or invalid.
func envSize() (width, height int) {
	width, height = 80, 24
	if v, err := strconv.Atoi(os.Getenv("COLUMNS")); err == nil && v > 0 {
		width = v
	}
	if v, err := strconv.Atoi(os.Getenv("LINES")); err == nil && v > 0 {
		height = v
	}
	return width, height
}
