package plot

import (
	"math"

	"github.com/NimbleMarkets/ntcharts/canvas"
	"github.com/charmbracelet/lipgloss"
)

// Eighth blocks, index n is n/8 of a cell filled from the bottom.
var eighths = []rune{' ', '▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Density shades for 2-D cells, lowest first. Index 0 is an empty cell.
var shades = []rune{' ', '░', '▒', '▓', '█'}

// binRange maps canvas column i of n onto the bins it covers.
func binRange(i, n, bins int) (lo, hi int) {
	lo = i * bins / n
	hi = (i + 1) * bins / n
	if hi <= lo {
		hi = lo + 1
	}
	return lo, hi
}

func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func drawBars(c *canvas.Model, f frame, counts []float64, t Theme) {
	if len(counts) == 0 || f.ymax <= 0 || f.w <= 0 || f.h <= 0 {
		return
	}
	bottom := f.top + f.h - 1
	for col := 0; col < f.w; col++ {
		lo, hi := binRange(col, f.w, len(counts))
		var v float64
		for _, cnt := range counts[lo:hi] {
			v = math.Max(v, finite(cnt))
		}
		units := int(math.Round(v / f.ymax * float64(f.h*8)))
		for row := 0; units > 0 && row < f.h; row++ {
			n := units
			if n > 8 {
				n = 8
			}
			c.SetRuneWithStyle(canvas.Point{X: f.left + col, Y: bottom - row}, eighths[n], t.Bar)
			units -= n
		}
	}
}

func drawDensity(c *canvas.Model, f frame, grid [][]float64, t Theme) {
	nx := len(grid)
	if nx == 0 || len(grid[0]) == 0 || f.w <= 0 || f.h <= 0 {
		return
	}
	ny := len(grid[0])

	var peak float64
	for _, col := range grid {
		for _, v := range col {
			peak = math.Max(peak, finite(v))
		}
	}
	if peak <= 0 {
		return
	}

	for col := 0; col < f.w; col++ {
		xlo, xhi := binRange(col, f.w, nx)
		for row := 0; row < f.h; row++ {
			// row 0 is the top of the frame, the highest y bins
			ylo, yhi := binRange(f.h-1-row, f.h, ny)
			var v float64
			for _, column := range grid[xlo:xhi] {
				for _, cell := range column[ylo:yhi] {
					v = math.Max(v, finite(cell))
				}
			}
			if v == 0 {
				continue
			}
			level := int(math.Ceil(v / peak * float64(len(shades)-1)))
			st := lipgloss.NewStyle()
			if len(t.Heat) > 0 {
				st = st.Foreground(t.Heat[(level-1)*len(t.Heat)/(len(shades)-1)])
			}
			c.SetRuneWithStyle(canvas.Point{X: f.left + col, Y: f.top + row}, shades[level], st)
		}
	}
}
