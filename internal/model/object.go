package model

// Kind tags the drawable shape of a Plottable.
type Kind int

const (
	KindHist1D Kind = iota + 1
	KindHist2D
)

func (k Kind) String() string {
	switch k {
	case KindHist1D:
		return "hist1d"
	case KindHist2D:
		return "hist2d"
	default:
		return "unknown"
	}
}

// Object is anything addressable inside a data file.
type Object interface {
	Name() string
}

// Container is a node that can be indexed by a path segment.
type Container interface {
	Object
	Child(name string) (Object, bool)
	Children() []Object
}

// Plottable is a leaf the plotting backend knows how to draw.
type Plottable interface {
	Object
	Kind() Kind
	// Values returns the bin contents. With flow=false only the visible
	// range is returned; with flow=true the under/overflow bins are included.
	Values(flow bool) []float64
	Axes() []Axis
}

// Axis describes one binned dimension.
type Axis struct {
	Name  string    // May be empty
	Label string    // Optional human readable title
	Edges []float64 // len(Edges) == bins+1
}

// Bins returns the number of visible bins on the axis.
func (a Axis) Bins() int {
	if len(a.Edges) < 2 {
		return 0
	}
	return len(a.Edges) - 1
}

// Low and High return the visible range. Both are 0 for an axis without edges.
func (a Axis) Low() float64 {
	if len(a.Edges) == 0 {
		return 0
	}
	return a.Edges[0]
}

func (a Axis) High() float64 {
	if len(a.Edges) == 0 {
		return 0
	}
	return a.Edges[len(a.Edges)-1]
}

// Directory is the concrete Container produced by the loader.
type Directory struct {
	name     string
	children []Object
	index    map[string]int
}

// NewDirectory returns an empty directory.
func NewDirectory(name string) *Directory {
	return &Directory{name: name, index: make(map[string]int)}
}

func (d *Directory) Name() string { return d.name }

// Add appends a child, replacing an existing child with the same name.
func (d *Directory) Add(obj Object) {
	if i, ok := d.index[obj.Name()]; ok {
		d.children[i] = obj
		return
	}
	d.index[obj.Name()] = len(d.children)
	d.children = append(d.children, obj)
}

func (d *Directory) Child(name string) (Object, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.children[i], true
}

func (d *Directory) Children() []Object {
	out := make([]Object, len(d.children))
	copy(out, d.children)
	return out
}

// Branch is a column of raw entries (one value per event). It has no
// binning of its own; the plotting layer histograms it on demand.
type Branch struct {
	BranchName string
	Entries    []float64
}

func (b *Branch) Name() string { return b.BranchName }

// Text is an opaque string object. It can be browsed but not drawn.
type Text struct {
	TextName string
	Value    string
}

func (t *Text) Name() string { return t.TextName }
