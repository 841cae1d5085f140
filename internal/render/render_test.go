package render

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"histview/internal/model"
	"histview/internal/plot"
)

func init() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func hist(counts []float64, under, over float64) *model.Hist1D {
	edges := make([]float64, len(counts)+1)
	for i := range edges {
		edges[i] = float64(i)
	}
	return &model.Hist1D{
		HistName:  "h",
		Axis:      model.Axis{Name: "pt", Edges: edges},
		Counts:    counts,
		Underflow: under,
		Overflow:  over,
	}
}

// exploding panics as soon as the backend asks for its contents.
type exploding struct{ depth int }

func (e exploding) Name() string       { return "boom" }
func (e exploding) Kind() model.Kind   { return model.KindHist1D }
func (e exploding) Axes() []model.Axis { return []model.Axis{{Name: "x", Edges: []float64{0, 1}}} }
func (e exploding) Values(bool) []float64 {
	recurse(e.depth)
	return nil
}

func recurse(n int) {
	if n <= 0 {
		panic("bin storage corrupted")
	}
	recurse(n - 1)
}

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		h         *model.Hist1D
		inner     float64
		full      float64
		wantTitle string
	}{
		{"no flow", hist([]float64{1, 2, 3}, 0, 0), 6, 6, "h - Entries = 6"},
		{"with flow", hist([]float64{1, 2, 3}, 1, 1), 6, 8, "h - Entries = 6 (8 with flow)"},
		{"empty", hist(nil, 0, 0), 0, 0, "h - Entries = 0"},
		{"fractional", hist([]float64{0.5, 0.25}, 0, 0), 0.75, 0.75, "h - Entries = 0.75"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Summarize(tt.h)
			if s.InnerSum != tt.inner || s.FullSum != tt.full {
				t.Errorf("sums = %v/%v, want %v/%v", s.InnerSum, s.FullSum, tt.inner, tt.full)
			}
			if s.AxisLabel != "pt" {
				t.Errorf("axis label = %q", s.AxisLabel)
			}
			if got := Title("h", s); got != tt.wantTitle {
				t.Errorf("title = %q, want %q", got, tt.wantTitle)
			}
		})
	}
}

func TestSummarize_NonFiniteSkipped(t *testing.T) {
	s := Summarize(hist([]float64{math.NaN(), 2, math.Inf(1)}, math.NaN(), 0))
	if s.InnerSum != 2 || s.FullSum != 2 {
		t.Errorf("sums = %v/%v, want 2/2", s.InnerSum, s.FullSum)
	}
}

func TestSummarize_InnerNeverExceedsFull(t *testing.T) {
	for _, h := range []*model.Hist1D{
		hist([]float64{1, 2, 3}, 0, 0),
		hist([]float64{0, 0, 9}, 4, 0),
		hist([]float64{7}, 0, 0.5),
	} {
		s := Summarize(h)
		if s.InnerSum > s.FullSum {
			t.Errorf("inner %v > full %v", s.InnerSum, s.FullSum)
		}
	}
}

func TestSummarize_MissingAxisName(t *testing.T) {
	h := hist([]float64{1}, 0, 0)
	h.Axis.Name = ""
	if s := Summarize(h); s.AxisLabel != "" {
		t.Errorf("axis label = %q, want empty", s.AxisLabel)
	}
}

func TestSumsEqual(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{6, 6, true},
		{0, 0, true},
		{0.1 + 0.2, 0.3, true},
		{1e12, 1e12 + 1e-3, true},
		{6, 8, false},
		{0, 1e-6, false},
	}
	for _, tt := range tests {
		if got := SumsEqual(tt.a, tt.b); got != tt.want {
			t.Errorf("SumsEqual(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestNewCanvas_TitleAndLabel(t *testing.T) {
	c, err := NewCanvas(hist([]float64{1, 2, 3}, 1, 1), 60, 16, "")
	if err != nil {
		t.Fatalf("NewCanvas: %v", err)
	}
	lines := strings.Split(c.String(), "\n")
	if !strings.Contains(lines[0], "h - Entries = 6 (8 with flow)") {
		t.Errorf("title row = %q", lines[0])
	}
	if !strings.Contains(lines[len(lines)-1], "pt") {
		t.Errorf("label row = %q", lines[len(lines)-1])
	}
	if c.Width() != 60 || c.Height() != 16 {
		t.Errorf("canvas size = %dx%d", c.Width(), c.Height())
	}
}

func TestNewCanvas_Idempotent(t *testing.T) {
	h := hist([]float64{4, 8, 15, 16, 23, 42}, 0, 3)
	a, err := NewCanvas(h, 80, 24, "dark")
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewCanvas(h, 80, 24, "dark")
	if err != nil {
		t.Fatal(err)
	}
	if a.String() != b.String() {
		t.Error("identical renders produced different output")
	}
}

func TestBuildCanvas_ReusedBuilderDoesNotLeak(t *testing.T) {
	b := plot.NewBuilder()
	first, err := BuildCanvas(b, hist([]float64{1, 2, 3}, 0, 0), 40, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := BuildCanvas(b, hist([]float64{9, 9}, 5, 5), 30, 8, "retro"); err != nil {
		t.Fatal(err)
	}
	again, err := BuildCanvas(b, hist([]float64{1, 2, 3}, 0, 0), 40, 10, "")
	if err != nil {
		t.Fatal(err)
	}
	if first.String() != again.String() {
		t.Error("state from the previous render leaked into the next one")
	}
}

func TestNewCanvas_ErrorsPropagate(t *testing.T) {
	tests := []struct {
		name  string
		item  model.Object
		w, h  int
		theme string
		want  error
	}{
		{"unsupported", &model.Text{TextName: "t"}, 40, 10, "", plot.ErrUnsupported},
		{"too small", hist([]float64{1}, 0, 0), 3, 2, "", plot.ErrInvalidSize},
		{"bad theme", hist([]float64{1}, 0, 0), 40, 10, "neon", plot.ErrUnknownTheme},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCanvas(tt.item, tt.w, tt.h, tt.theme)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestNewCanvas_PanicBecomesError(t *testing.T) {
	_, err := NewCanvas(exploding{depth: 2}, 40, 10, "")
	var pe *PanicError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *PanicError", err)
	}
	if len(pe.Stack) == 0 {
		t.Error("panic stack not recorded")
	}
}

func TestCapture_Error(t *testing.T) {
	_, err := NewCanvas(&model.Text{TextName: "t"}, 40, 10, "")
	d := Capture(err)
	if d.Type != "*plot.UnsupportedError" {
		t.Errorf("type = %q", d.Type)
	}
	if !strings.Contains(d.Message, "cannot plot object") {
		t.Errorf("message = %q", d.Message)
	}
	if len(d.Frames) == 0 || len(d.Frames) > MaxFrames {
		t.Fatalf("%d frames kept, want 1..%d", len(d.Frames), MaxFrames)
	}
	if last := d.Frames[len(d.Frames)-1]; !strings.Contains(last.Function, "plot.AsPlottable") {
		t.Errorf("innermost frame = %s, want where the error was raised", last.Function)
	}
	if Capture(nil) != nil {
		t.Error("Capture(nil) should be nil")
	}
}

func TestCapture_Types(t *testing.T) {
	_, resolveErr := model.Resolve(model.NewDirectory("root"), model.ParsePath("a:b"))
	tests := []struct {
		name   string
		err    error
		want   string
		frames bool
	}{
		{"resolution", resolveErr, "*model.ResolutionError", true},
		{"wrapped resolution", fmt.Errorf("select: %w", resolveErr), "*model.ResolutionError", true},
		{"too small", func() error { _, err := NewCanvas(hist([]float64{1}, 0, 0), 3, 2, ""); return err }(), "*plot.SizeError", true},
		{"plain", errors.New("disk on fire"), "error", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Capture(tt.err)
			if d.Type != tt.want {
				t.Errorf("type = %q, want %q", d.Type, tt.want)
			}
			if got := len(d.Frames) > 0; got != tt.frames {
				t.Errorf("frames = %v, want present %v", d.Frames, tt.frames)
			}
		})
	}
}

func TestCapture_ResolutionFramesStartAtResolve(t *testing.T) {
	_, err := model.Resolve(model.NewDirectory("root"), model.ParsePath("missing"))
	d := Capture(err)
	if len(d.Frames) == 0 {
		t.Fatal("no frames recorded")
	}
	if last := d.Frames[len(d.Frames)-1]; !strings.Contains(last.Function, "model.Resolve") {
		t.Errorf("innermost frame = %s", last.Function)
	}
	for _, f := range d.Frames {
		if strings.Contains(f.Function, "render.Capture") {
			t.Errorf("capturing code leaked into the frames: %s", f)
		}
	}
}

func TestCapture_PanicIsBounded(t *testing.T) {
	for _, depth := range []int{1, 30} {
		_, err := NewCanvas(exploding{depth: depth}, 40, 10, "")
		d := Capture(err)
		if d.Type != "panic" || d.Message != "bin storage corrupted" {
			t.Errorf("depth %d: %s: %s", depth, d.Type, d.Message)
		}
		if strings.Contains(d.String(), "panic: panic") {
			t.Errorf("depth %d: doubled prefix:\n%s", depth, d)
		}
		if len(d.Frames) > MaxFrames {
			t.Errorf("depth %d: %d frames, limit %d", depth, len(d.Frames), MaxFrames)
		}
		lines := d.Lines()
		if len(lines) > MaxFrames+3 {
			t.Errorf("depth %d: %d lines", depth, len(lines))
		}
		if depth == 30 {
			if d.Hidden == 0 {
				t.Error("deep stack should elide frames")
			}
			if !strings.Contains(d.String(), "frames hidden") {
				t.Errorf("missing elision marker:\n%s", d)
			}
			if last := d.Frames[len(d.Frames)-1]; !strings.Contains(last.Function, "recurse") {
				t.Errorf("innermost frame = %s, want the panicking function", last.Function)
			}
		}
	}
}
