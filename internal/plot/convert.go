package plot

import (
	"errors"
	"fmt"
	"math"

	pkgerrors "github.com/pkg/errors"

	"histview/internal/model"
)

// ErrUnsupported is returned when an object has no plot representation.
var ErrUnsupported = errors.New("cannot plot object")

// UnsupportedError names the object that could not be plotted. It matches
// ErrUnsupported with errors.Is.
type UnsupportedError struct {
	Name   string
	Reason string
}

func (e *UnsupportedError) Error() string {
	if e.Name == "" {
		return ErrUnsupported.Error() + ": " + e.Reason
	}
	return fmt.Sprintf("%v: %s %s", ErrUnsupported, e.Name, e.Reason)
}

func (e *UnsupportedError) Unwrap() error { return ErrUnsupported }

// BranchBins is the number of bins used when histogramming a branch.
const BranchBins = 50

// gridded is implemented by 2-D plottables that expose their cells.
type gridded interface {
	Cells(flow bool) [][]float64
}

// AsPlottable returns the histogram that represents obj on a canvas.
// Histograms are returned as is; branches are filled into a fresh
// BranchBins histogram spanning their finite range.
func AsPlottable(obj model.Object) (model.Plottable, error) {
	switch o := obj.(type) {
	case model.Plottable:
		switch o.Kind() {
		case model.KindHist1D:
			return o, nil
		case model.KindHist2D:
			if _, ok := o.(gridded); ok {
				return o, nil
			}
		}
		return nil, pkgerrors.WithStack(&UnsupportedError{Name: o.Name(), Reason: "has unsupported kind " + o.Kind().String()})
	case *model.Branch:
		return histogramBranch(o), nil
	case nil:
		return nil, pkgerrors.WithStack(&UnsupportedError{Reason: "nil object"})
	default:
		return nil, pkgerrors.WithStack(&UnsupportedError{Name: obj.Name(), Reason: fmt.Sprintf("is a %T", obj)})
	}
}

func histogramBranch(b *model.Branch) *model.Hist1D {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range b.Entries {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	switch {
	case math.IsInf(lo, 1):
		lo, hi = 0, 1
	case lo == hi:
		// relative padding once 0.5 falls below the spacing of lo
		pad := math.Max(0.5, math.Abs(lo)*1e-9)
		lo = math.Max(lo-pad, -math.MaxFloat64)
		hi = math.Min(hi+pad, math.MaxFloat64)
	}

	// Scaling before subtracting keeps the width finite for ranges wider
	// than the largest float64.
	edges := make([]float64, BranchBins+1)
	width := hi/BranchBins - lo/BranchBins
	for i := range edges {
		edges[i] = lo + float64(i)*width
	}
	edges[BranchBins] = hi

	h := &model.Hist1D{
		HistName: b.Name(),
		Axis:     model.Axis{Name: b.Name(), Edges: edges},
		Counts:   make([]float64, BranchBins),
	}
	for _, v := range b.Entries {
		switch {
		case math.IsNaN(v), math.IsInf(v, 1):
			h.Overflow++
		case math.IsInf(v, -1):
			h.Underflow++
		default:
			h.Counts[branchBin(v, lo, width)]++
		}
	}
	return h
}

// branchBin maps a finite v in [lo, lo+BranchBins*width] to its bin,
// clamping rounding at both ends.
func branchBin(v, lo, width float64) int {
	x := v/width - lo/width
	switch {
	case math.IsNaN(x) || x < 0:
		return 0
	case x >= BranchBins:
		return BranchBins - 1
	}
	return int(x)
}
