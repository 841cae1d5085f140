// Package loader turns histogram files into a model.Directory tree.
//
// Files are YAML (JSON is accepted as well, being a YAML subset):
//
//	name: run42.root
//	children:
//	  - name: hists
//	    children:
//	      - name: pt
//	        type: hist1d
//	        axes: [{name: pt, bins: 4, low: 0, high: 100}]
//	        counts: [1, 5, 3, 1]
//	        overflow: 2
package loader

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"histview/internal/model"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid histogram file")

type axisNode struct {
	Name  string    `yaml:"name"`
	Label string    `yaml:"label"`
	Edges []float64 `yaml:"edges"`
	Bins  int       `yaml:"bins"`
	Low   float64   `yaml:"low"`
	High  float64   `yaml:"high"`
}

type objectNode struct {
	Name     string       `yaml:"name"`
	Type     string       `yaml:"type"`
	Children []objectNode `yaml:"children"`

	Axes      []axisNode  `yaml:"axes"`
	Counts    []float64   `yaml:"counts"`
	Underflow float64     `yaml:"underflow"`
	Overflow  float64     `yaml:"overflow"`
	Grid      [][]float64 `yaml:"grid"`
	FlowGrid  [][]float64 `yaml:"flow_grid"`
	Entries   []float64   `yaml:"entries"`
	Text      string      `yaml:"text"`
}

// Loader decodes files. The zero value is usable and logs nothing.
type Loader struct {
	Logger *slog.Logger
}

// New returns a Loader that logs to logger (nil discards).
func New(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Loader{Logger: logger}
}

func (l *Loader) logger() *slog.Logger {
	if l.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return l.Logger
}

// LoadFile opens and decodes path.
func (l *Loader) LoadFile(path string) (*model.Directory, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	root, err := l.Load(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	if root.Name() == "" {
		named := model.NewDirectory(path)
		for _, c := range root.Children() {
			named.Add(c)
		}
		root = named
	}
	return root, nil
}

// Load decodes a whole file from r.
func (l *Loader) Load(r io.Reader) (*model.Directory, error) {
	var doc objectNode
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return model.NewDirectory(doc.Name), nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}

	root := model.NewDirectory(doc.Name)
	if err := l.fill(root, doc.Children, nil); err != nil {
		return nil, err
	}
	l.logger().Debug("loaded file", slog.String("name", doc.Name), slog.Int("objects", len(model.Flatten(root, nil))))
	return root, nil
}

func (l *Loader) fill(dir *model.Directory, children []objectNode, prefix model.Path) error {
	for _, c := range children {
		p := prefix.Join(c.Name)
		if c.Name == "" {
			return fmt.Errorf("%w: %s: object without a name", ErrInvalid, prefix)
		}
		if strings.Contains(c.Name, model.PathSeparator) {
			return fmt.Errorf("%w: %s: name contains %q", ErrInvalid, p, model.PathSeparator)
		}
		if _, dup := dir.Child(c.Name); dup {
			return fmt.Errorf("%w: %s: duplicate name", ErrInvalid, p)
		}

		obj, err := l.build(c, p)
		if err != nil {
			return err
		}
		dir.Add(obj)
	}
	return nil
}

func (l *Loader) build(n objectNode, p model.Path) (model.Object, error) {
	typ := n.Type
	if typ == "" {
		typ = "dir"
	}

	switch typ {
	case "dir", "directory", "tree":
		sub := model.NewDirectory(n.Name)
		if err := l.fill(sub, n.Children, p); err != nil {
			return nil, err
		}
		return sub, nil

	case "hist1d":
		if len(n.Axes) != 1 {
			return nil, fmt.Errorf("%w: %s: hist1d needs exactly one axis, got %d", ErrInvalid, p, len(n.Axes))
		}
		ax, err := buildAxis(n.Axes[0], p)
		if err != nil {
			return nil, err
		}
		if len(n.Counts) != ax.Bins() {
			return nil, fmt.Errorf("%w: %s: %d counts for %d bins", ErrInvalid, p, len(n.Counts), ax.Bins())
		}
		return &model.Hist1D{
			HistName:  n.Name,
			Axis:      ax,
			Counts:    n.Counts,
			Underflow: n.Underflow,
			Overflow:  n.Overflow,
		}, nil

	case "hist2d":
		if len(n.Axes) != 2 {
			return nil, fmt.Errorf("%w: %s: hist2d needs exactly two axes, got %d", ErrInvalid, p, len(n.Axes))
		}
		x, err := buildAxis(n.Axes[0], p)
		if err != nil {
			return nil, err
		}
		y, err := buildAxis(n.Axes[1], p)
		if err != nil {
			return nil, err
		}
		if err := checkGrid(n.Grid, x.Bins(), y.Bins()); err != nil {
			return nil, fmt.Errorf("%w: %s: grid: %v", ErrInvalid, p, err)
		}
		if n.FlowGrid != nil {
			if err := checkGrid(n.FlowGrid, x.Bins()+2, y.Bins()+2); err != nil {
				return nil, fmt.Errorf("%w: %s: flow_grid: %v", ErrInvalid, p, err)
			}
		}
		return &model.Hist2D{HistName: n.Name, X: x, Y: y, Grid: n.Grid, FlowGrid: n.FlowGrid}, nil

	case "branch":
		return &model.Branch{BranchName: n.Name, Entries: n.Entries}, nil

	case "text":
		return &model.Text{TextName: n.Name, Value: n.Text}, nil

	default:
		// Unknown object types stay browsable; drawing them fails later.
		l.logger().Warn("unknown object type", slog.String("path", p.String()), slog.String("type", typ))
		return &model.Text{TextName: n.Name, Value: typ}, nil
	}
}

func buildAxis(a axisNode, p model.Path) (model.Axis, error) {
	ax := model.Axis{Name: a.Name, Label: a.Label, Edges: a.Edges}
	if len(ax.Edges) == 0 && a.Bins > 0 {
		if a.High <= a.Low {
			return ax, fmt.Errorf("%w: %s: axis %q: high must exceed low", ErrInvalid, p, a.Name)
		}
		ax.Edges = make([]float64, a.Bins+1)
		width := (a.High - a.Low) / float64(a.Bins)
		for i := range ax.Edges {
			ax.Edges[i] = a.Low + float64(i)*width
		}
		ax.Edges[a.Bins] = a.High
	}
	if len(ax.Edges) < 2 {
		return ax, fmt.Errorf("%w: %s: axis %q has no bins", ErrInvalid, p, a.Name)
	}
	for i := 1; i < len(ax.Edges); i++ {
		if ax.Edges[i] <= ax.Edges[i-1] {
			return ax, fmt.Errorf("%w: %s: axis %q edges not increasing", ErrInvalid, p, a.Name)
		}
	}
	return ax, nil
}

func checkGrid(g [][]float64, nx, ny int) error {
	if len(g) != nx {
		return fmt.Errorf("%d columns, want %d", len(g), nx)
	}
	for i, col := range g {
		if len(col) != ny {
			return fmt.Errorf("column %d has %d cells, want %d", i, len(col), ny)
		}
	}
	return nil
}
