package tui

import (
	"errors"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"histview/internal/loader"
	"histview/internal/model"
	"histview/internal/plot"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// oddball claims a kind the backend does not know and counts how often
// it is inspected.
type oddball struct{ calls *int }

func (o oddball) Name() string { return "oddball" }
func (o oddball) Kind() model.Kind {
	*o.calls++
	return model.Kind(99)
}
func (o oddball) Values(bool) []float64 { return nil }
func (o oddball) Axes() []model.Axis    { return nil }

func panelTree(calls *int) *model.Directory {
	root := loader.Demo()
	root.Add(oddball{calls: calls})
	return root
}

func TestPlotPanel_InitialStateIsEmpty(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	if p.State() != StateEmpty {
		t.Fatalf("state = %v", p.State())
	}
	out := p.Render(60, 16, "")
	if !strings.Contains(out, "histograms in your terminal") {
		t.Errorf("empty panel should show the banner:\n%s", out)
	}
	if strings.Contains(out, "No plot selected!") {
		t.Error("empty panel must differ from the no-selection panel")
	}
}

func TestPlotPanel_ClearAlwaysShowsNoSelection(t *testing.T) {
	var calls int
	for _, prior := range []string{"", "hists:gaus", "nope", "oddball"} {
		p := NewPlotPanel(panelTree(&calls), nil)
		if prior != "" {
			_ = p.Select(prior)
			p.Render(60, 16, "")
		}
		if err := p.SetSelection(nil); err != nil {
			t.Fatal(err)
		}
		if p.State() != StateNoSelection {
			t.Errorf("after %q: state = %v", prior, p.State())
		}
		if out := p.Render(60, 16, ""); !strings.Contains(out, "No plot selected!") {
			t.Errorf("after %q: panel = %s", prior, out)
		}
	}
}

func TestPlotPanel_SelectAndRender(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	path := "hists:flow"
	if err := p.SetSelection(&path); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if p.State() != StateResolved || p.Item().Name() != "flow" {
		t.Fatalf("state = %v item = %v", p.State(), p.Item())
	}

	out := p.Render(60, 16, "")
	if !strings.Contains(out, "flow - Entries = 6 (8 with flow)") {
		t.Errorf("missing title:\n%s", out)
	}
	lines := strings.Split(out, "\n")
	if len(lines) != 16 {
		t.Errorf("panel is %d lines, want 16", len(lines))
	}
	for i, l := range lines {
		if w := ansi.StringWidth(l); w != 60 {
			t.Errorf("line %d width %d, want 60", i, w)
		}
	}

	if err := p.Select("hists:flat"); err != nil {
		t.Fatal(err)
	}
	if out := p.Render(60, 16, "matrix"); strings.Contains(out, "with flow") {
		t.Errorf("flat histogram title should not mention flow:\n%s", out)
	}
}

func TestPlotPanel_RenderTwiceIsStable(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	if err := p.Select("hists:gaus"); err != nil {
		t.Fatal(err)
	}
	a := p.Render(80, 24, "dark")
	p.Render(40, 12, "retro")
	b := p.Render(80, 24, "dark")
	if a != b {
		t.Error("renders at the same size differ")
	}
}

func TestPlotPanel_ResolutionFailure(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	if err := p.Select("hists:gaus"); err != nil {
		t.Fatal(err)
	}

	err := p.Select("missing:thing")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("err = %v", err)
	}
	if p.State() != StateFailed {
		t.Fatalf("state = %v, want failed", p.State())
	}
	if p.Item() != nil {
		t.Error("failed selection must not keep the previous item")
	}
	d := p.Diagnostic()
	if d.Type != "*model.ResolutionError" {
		t.Errorf("diagnostic type = %q", d.Type)
	}
	if len(d.Frames) == 0 || !strings.Contains(d.Frames[len(d.Frames)-1].Function, "model.Resolve") {
		t.Errorf("frames should end where resolution failed: %v", d.Frames)
	}
	for _, f := range d.Frames {
		if strings.Contains(f.Function, "PlotPanel).fail") {
			t.Errorf("panel bookkeeping leaked into the frames: %s", f)
		}
	}
	out := p.Render(70, 14, "")
	if !strings.Contains(out, "Traceback") || !strings.Contains(out, "no such object") {
		t.Errorf("failed panel:\n%s", out)
	}

	if err := p.Select(""); !errors.Is(err, model.ErrEmptyPath) {
		t.Errorf("empty path err = %v", err)
	}
}

func TestPlotPanel_RenderFailureIsSticky(t *testing.T) {
	var calls int
	p := NewPlotPanel(panelTree(&calls), nil)
	if err := p.Select("oddball"); err != nil {
		t.Fatalf("selection should succeed, drawing fails later: %v", err)
	}

	first := p.Render(70, 14, "")
	if p.State() != StateFailed {
		t.Fatalf("state = %v, want failed", p.State())
	}
	if !errors.Is(p.Diagnostic().Err, plot.ErrUnsupported) {
		t.Errorf("diagnostic err = %v", p.Diagnostic().Err)
	}
	if fs := p.Diagnostic().Frames; len(fs) == 0 || !strings.Contains(fs[len(fs)-1].Function, "plot.AsPlottable") {
		t.Errorf("frames should reach the backend: %v", fs)
	}
	seen := calls

	second := p.Render(70, 14, "")
	if calls != seen {
		t.Error("second render tried to draw again")
	}
	if first != second {
		t.Error("second render should repeat the same diagnostic")
	}

	if err := p.Select("hists:flat"); err != nil {
		t.Fatal(err)
	}
	if p.State() != StateResolved || p.Diagnostic() != nil {
		t.Error("a new selection should leave the failed state")
	}
}

func TestPlotPanel_DiagnosticPanelIsBounded(t *testing.T) {
	var calls int
	p := NewPlotPanel(panelTree(&calls), nil)
	_ = p.Select("oddball")
	out := p.Render(50, 10, "")
	if n := len(strings.Split(out, "\n")); n != 10 {
		t.Errorf("diagnostic panel is %d lines, want 10", n)
	}
}

func TestPlotPanel_SetDiagnostic(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	p.SetDiagnostic(nil)
	if p.State() != StateEmpty {
		t.Errorf("nil diagnostic changed state to %v", p.State())
	}
	p.SetDiagnostic(errors.New("disk on fire"))
	if p.State() != StateFailed || !strings.Contains(p.Render(60, 12, ""), "disk on fire") {
		t.Error("SetDiagnostic should show the error")
	}
}

func TestPlotPanel_TooSmallFails(t *testing.T) {
	p := NewPlotPanel(loader.Demo(), nil)
	_ = p.Select("hists:gaus")
	p.Render(8, 4, "")
	if p.State() != StateFailed || !errors.Is(p.Diagnostic().Err, plot.ErrInvalidSize) {
		t.Errorf("state = %v diag = %v", p.State(), p.Diagnostic())
	}
}

func TestPlotPanel_ExtremeBranchPlots(t *testing.T) {
	root := model.NewDirectory("root")
	root.Add(&model.Branch{BranchName: "wide", Entries: []float64{-1e308, 1e308, 0}})
	p := NewPlotPanel(root, nil)
	if err := p.Select("wide"); err != nil {
		t.Fatal(err)
	}
	out := p.Render(60, 14, "")
	if p.State() != StateResolved {
		t.Fatalf("state = %v:\n%s", p.State(), out)
	}
	if !strings.Contains(out, "wide - Entries = 3") {
		t.Errorf("missing title:\n%s", out)
	}
}

func TestEnvSize(t *testing.T) {
	tests := []struct {
		name          string
		columns, rows string
		w, h          int
	}{
		{"from env", "132", "43", 132, 43},
		{"unset", "", "", 80, 24},
		{"garbage", "wide", "-3", 80, 24},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("COLUMNS", tt.columns)
			t.Setenv("LINES", tt.rows)
			if w, h := envSize(); w != tt.w || h != tt.h {
				t.Errorf("size = %dx%d, want %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}
