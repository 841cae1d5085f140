// Package render turns resolved objects into canvases and failures into
// bounded diagnostics.
package render

import (
	"math"
	"strconv"

	"histview/internal/model"
)

// Tolerances used by SumsEqual. Flow bins are frequently exactly zero, so
// the absolute floor only has to absorb rounding in the summation.
const (
	RelTol = 1e-9
	AbsTol = 1e-12
)

// Summary holds the entry counts shown in a plot title.
type Summary struct {
	InnerSum  float64 // visible range
	FullSum   float64 // including under/overflow
	AxisLabel string
}

// HasFlow reports whether the flow bins hold any entries.
func (s Summary) HasFlow() bool { return !SumsEqual(s.InnerSum, s.FullSum) }

// Summarize computes the counts for item. Non-finite bins are skipped, so
// an empty or NaN-filled histogram yields zero sums.
func Summarize(item model.Plottable) Summary {
	s := Summary{
		InnerSum: sum(item.Values(false)),
		FullSum:  sum(item.Values(true)),
	}
	if axes := item.Axes(); len(axes) > 0 {
		s.AxisLabel = axes[0].Name
	}
	return s
}

func sum(vs []float64) float64 {
	var total float64
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return total
}

// SumsEqual compares two sums with both a relative and an absolute tolerance.
func SumsEqual(a, b float64) bool {
	if a == b {
		return true
	}
	diff := math.Abs(a - b)
	return diff <= math.Max(RelTol*math.Max(math.Abs(a), math.Abs(b)), AbsTol)
}

// FormatCount prints v in the shortest form that round-trips.
func FormatCount(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Title is the plot heading: the entry count, plus the flow-inclusive
// count when the flow bins are not empty.
func Title(name string, s Summary) string {
	title := name + " - Entries = " + FormatCount(s.InnerSum)
	if s.HasFlow() {
		title += " (" + FormatCount(s.FullSum) + " with flow)"
	}
	return title
}
