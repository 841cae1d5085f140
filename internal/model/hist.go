package model

// Hist1D is a one dimensional histogram with under/overflow bins.
type Hist1D struct {
	HistName  string
	Axis      Axis
	Counts    []float64 // visible bins, len == Axis.Bins()
	Underflow float64
	Overflow  float64
}

func (h *Hist1D) Name() string { return h.HistName }
func (h *Hist1D) Kind() Kind   { return KindHist1D }
func (h *Hist1D) Axes() []Axis { return []Axis{h.Axis} }

func (h *Hist1D) Values(flow bool) []float64 {
	if !flow {
		out := make([]float64, len(h.Counts))
		copy(out, h.Counts)
		return out
	}
	out := make([]float64, 0, len(h.Counts)+2)
	out = append(out, h.Underflow)
	out = append(out, h.Counts...)
	return append(out, h.Overflow)
}

// Hist2D is a two dimensional histogram. Grid is indexed [x][y].
// FlowGrid, when present, has two extra rows and columns: index 0 is the
// underflow bin and index n+1 the overflow bin on each axis.
type Hist2D struct {
	HistName string
	X, Y     Axis
	Grid     [][]float64
	FlowGrid [][]float64
}

func (h *Hist2D) Name() string { return h.HistName }
func (h *Hist2D) Kind() Kind   { return KindHist2D }
func (h *Hist2D) Axes() []Axis { return []Axis{h.X, h.Y} }

// Cells returns the grid, visible range only or flow-inclusive. When no
// flow grid was recorded the visible grid is padded with empty flow bins.
func (h *Hist2D) Cells(flow bool) [][]float64 {
	if !flow {
		return h.Grid
	}
	if h.FlowGrid != nil {
		return h.FlowGrid
	}
	ny := 0
	if len(h.Grid) > 0 {
		ny = len(h.Grid[0])
	}
	out := make([][]float64, len(h.Grid)+2)
	out[0] = make([]float64, ny+2)
	out[len(out)-1] = make([]float64, ny+2)
	for i, col := range h.Grid {
		row := make([]float64, ny+2)
		copy(row[1:], col)
		out[i+1] = row
	}
	return out
}

// Values flattens Cells in row-major order.
func (h *Hist2D) Values(flow bool) []float64 {
	var out []float64
	for _, col := range h.Cells(flow) {
		out = append(out, col...)
	}
	return out
}
