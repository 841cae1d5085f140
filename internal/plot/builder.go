// Package plot draws histograms onto fixed-size text canvases.
//
// A Builder holds all state for one canvas. Callers create one per render
// (or Clear an existing one); nothing is shared between builders.
package plot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
	pkgerrors "github.com/pkg/errors"

	"histview/internal/model"
)

// Smallest canvas that still fits a title, one plot row and both axis rows.
const (
	MinWidth  = 10
	MinHeight = 5
)

var (
	ErrInvalidSize  = errors.New("invalid canvas size")
	ErrNothingDrawn = errors.New("nothing drawn")
)

// SizeError reports a canvas below MinWidth x MinHeight. It matches
// ErrInvalidSize with errors.Is.
type SizeError struct {
	Width, Height int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("%v: %dx%d (minimum %dx%d)", ErrInvalidSize, e.Width, e.Height, MinWidth, MinHeight)
}

func (e *SizeError) Unwrap() error { return ErrInvalidSize }

// Builder accumulates a plot and renders it with Build.
type Builder struct {
	width, height int
	theme         Theme
	title         string
	xlabel        string
	item          model.Plottable
}

// NewBuilder returns a cleared builder.
func NewBuilder() *Builder {
	b := &Builder{}
	b.Clear()
	return b
}

// Clear drops everything set since the last Clear.
func (b *Builder) Clear() {
	t, _ := LookupTheme(DefaultTheme)
	*b = Builder{theme: t}
}

// SetSize sets the canvas size in cells. Validity is checked by Build.
func (b *Builder) SetSize(width, height int) {
	b.width, b.height = width, height
}

// SetTheme selects a named theme from Themes.
func (b *Builder) SetTheme(name string) error {
	t, err := LookupTheme(name)
	if err != nil {
		return err
	}
	b.theme = t
	return nil
}

// Draw records obj as the thing to plot and returns the histogram that
// will actually be drawn for it.
func (b *Builder) Draw(obj model.Object) (model.Plottable, error) {
	p, err := AsPlottable(obj)
	if err != nil {
		return nil, err
	}
	b.item = p
	return p, nil
}

func (b *Builder) SetTitle(title string)  { b.title = title }
func (b *Builder) SetXLabel(label string) { b.xlabel = label }

// Build renders the canvas: exactly height lines of exactly width cells.
func (b *Builder) Build() (string, error) {
	if b.width < MinWidth || b.height < MinHeight {
		return "", pkgerrors.WithStack(&SizeError{Width: b.width, Height: b.height})
	}
	if b.item == nil {
		return "", pkgerrors.WithStack(ErrNothingDrawn)
	}

	c := canvas.New(b.width, b.height)
	blank := lipgloss.NewStyle()
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, ' ', blank)
		}
	}

	f := b.frame()
	putCentered(&c, 0, b.width, b.title, b.theme.Title)

	switch b.item.Kind() {
	case model.KindHist1D:
		drawBars(&c, f, b.item.Values(false), b.theme)
	case model.KindHist2D:
		drawDensity(&c, f, b.item.(gridded).Cells(false), b.theme)
	}

	b.drawAxes(&c, f)
	putCentered(&c, b.height-1, b.width, b.xlabel, b.theme.Label)

	return normalize(c.View(), b.width, b.height), nil
}

// frame is the plotting area: columns [left, left+w), rows [top, top+h).
type frame struct {
	left, top, w, h int
	ymax            float64
	ylabel          string
}

func (b *Builder) frame() frame {
	f := frame{top: 1, h: b.height - 4}

	f.ymax = maxValue(b.item)
	if b.item.Kind() == model.KindHist1D {
		f.ylabel = formatTick(f.ymax)
	}
	f.left = len(f.ylabel) + 1
	if b.width-f.left < 1 {
		f.ylabel = ""
		f.left = 1
	}
	f.w = b.width - f.left
	return f
}

func (b *Builder) drawAxes(c *canvas.Model, f frame) {
	axisRow := f.top + f.h
	for y := f.top; y < axisRow; y++ {
		c.SetRuneWithStyle(canvas.Point{X: f.left - 1, Y: y}, '│', b.theme.Axis)
	}
	c.SetRuneWithStyle(canvas.Point{X: f.left - 1, Y: axisRow}, '└', b.theme.Axis)
	for x := f.left; x < b.width; x++ {
		c.SetRuneWithStyle(canvas.Point{X: x, Y: axisRow}, '─', b.theme.Axis)
	}

	if f.ylabel != "" {
		putString(c, f.left-1-len(f.ylabel), f.top, f.ylabel, b.theme.Tick)
		putString(c, f.left-2, f.top+f.h-1, "0", b.theme.Tick)
	}

	ax := b.item.Axes()[0]
	lo, hi := formatTick(ax.Low()), formatTick(ax.High())
	tickRow := axisRow + 1
	if len(lo)+len(hi)+1 <= f.w {
		putString(c, f.left, tickRow, lo, b.theme.Tick)
		putString(c, b.width-len(hi), tickRow, hi, b.theme.Tick)
	} else {
		putString(c, f.left, tickRow, runewidth.Truncate(lo, f.w, ""), b.theme.Tick)
	}
}

func maxValue(p model.Plottable) float64 {
	var m float64
	for _, v := range p.Values(false) {
		if v > m {
			m = v
		}
	}
	return m
}

func formatTick(v float64) string {
	return strconv.FormatFloat(v, 'g', 3, 64)
}

func putString(c *canvas.Model, x, y int, s string, st lipgloss.Style) {
	for _, r := range s {
		if x >= c.Width() {
			return
		}
		if x >= 0 {
			c.SetRuneWithStyle(canvas.Point{X: x, Y: y}, r, st)
		}
		x += runewidth.RuneWidth(r)
	}
}

func putCentered(c *canvas.Model, y, width int, s string, st lipgloss.Style) {
	s = runewidth.Truncate(s, width, "…")
	putString(c, (width-runewidth.StringWidth(s))/2, y, s, st)
}

// normalize forces the canvas view to an exact width x height block.
func normalize(view string, width, height int) string {
	lines := strings.Split(view, "\n")
	out := make([]string, height)
	for i := range out {
		var line string
		if i < len(lines) {
			line = ansi.Truncate(lines[i], width, "")
		}
		if pad := width - ansi.StringWidth(line); pad > 0 {
			line += strings.Repeat(" ", pad)
		}
		out[i] = line
	}
	return strings.Join(out, "\n")
}
