package loader

import (
	"math"
	"math/rand"

	"histview/internal/model"
)

// Demo builds a small in-memory file with one of everything the browser
// can show. The contents are deterministic.
func Demo() *model.Directory {
	rng := rand.New(rand.NewSource(42))

	root := model.NewDirectory("demo.root")

	hists := model.NewDirectory("hists")
	gaus := make([]float64, 500)
	for i := range gaus {
		gaus[i] = rng.NormFloat64()
	}
	hists.Add(fillHist1D("gaus", model.Axis{Name: "x", Edges: regularEdges(40, -3, 3)}, gaus))
	hists.Add(&model.Hist1D{
		HistName: "flat",
		Axis:     model.Axis{Name: "bin", Edges: regularEdges(3, 0, 3)},
		Counts:   []float64{1, 2, 3},
	})
	hists.Add(&model.Hist1D{
		HistName:  "flow",
		Axis:      model.Axis{Name: "bin", Edges: regularEdges(3, 0, 3)},
		Counts:    []float64{1, 2, 3},
		Underflow: 1,
		Overflow:  1,
	})

	xy := &model.Hist2D{
		HistName: "xy",
		X:        model.Axis{Name: "x", Edges: regularEdges(20, -3, 3)},
		Y:        model.Axis{Name: "y", Edges: regularEdges(10, -3, 3)},
		Grid:     make([][]float64, 20),
	}
	for i := range xy.Grid {
		xy.Grid[i] = make([]float64, 10)
	}
	for n := 0; n < 2000; n++ {
		x, y := rng.NormFloat64(), rng.NormFloat64()*0.7+0.3*rng.NormFloat64()
		ix := int(math.Floor((x + 3) / 6 * 20))
		iy := int(math.Floor((y + 3) / 6 * 10))
		if ix >= 0 && ix < 20 && iy >= 0 && iy < 10 {
			xy.Grid[ix][iy]++
		}
	}
	hists.Add(xy)
	root.Add(hists)

	events := model.NewDirectory("events")
	pt := make([]float64, 1000)
	for i := range pt {
		pt[i] = rng.ExpFloat64() * 20
	}
	events.Add(&model.Branch{BranchName: "pt", Entries: pt})
	eta := make([]float64, 1000)
	for i := range eta {
		eta[i] = rng.NormFloat64() * 1.5
	}
	events.Add(&model.Branch{BranchName: "eta", Entries: eta})
	root.Add(events)

	root.Add(&model.Text{TextName: "info", Value: "generated by histview --demo"})
	return root
}

func regularEdges(bins int, low, high float64) []float64 {
	edges := make([]float64, bins+1)
	width := (high - low) / float64(bins)
	for i := range edges {
		edges[i] = low + float64(i)*width
	}
	edges[bins] = high
	return edges
}

func fillHist1D(name string, ax model.Axis, data []float64) *model.Hist1D {
	h := &model.Hist1D{HistName: name, Axis: ax, Counts: make([]float64, ax.Bins())}
	for _, v := range data {
		switch {
		case v < ax.Low():
			h.Underflow++
		case v >= ax.High():
			h.Overflow++
		default:
			i := int((v - ax.Low()) / (ax.High() - ax.Low()) * float64(ax.Bins()))
			if i >= ax.Bins() {
				i = ax.Bins() - 1
			}
			h.Counts[i]++
		}
	}
	return h
}
