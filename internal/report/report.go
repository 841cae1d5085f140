// Package report produces the non-interactive views of a file: an
// indented tree and a JSON listing of plottable objects.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"histview/internal/model"
	"histview/internal/plot"
	"histview/internal/render"
)

var (
	rootStyle = lipgloss.NewStyle().Bold(true)
	dirStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	kindStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Tree renders root as an indented listing with kind icons.
func Tree(root model.Container) string {
	var b strings.Builder
	b.WriteString(rootStyle.Render(root.Name()))
	for _, n := range model.Flatten(root, nil) {
		b.WriteString("\n")
		b.WriteString(strings.Repeat("  ", n.Depth+1))
		icon := model.IconFor(n.Object, true)
		name := n.Object.Name()
		if n.IsContainer() {
			name = dirStyle.Render(name)
		}
		fmt.Fprintf(&b, "%s %s %s", icon, name, kindStyle.Render("("+model.KindName(n.Object)+")"))
	}
	return b.String()
}

// Entry is one plottable object in the JSON listing.
type Entry struct {
	Path            string  `json:"path"`
	Kind            string  `json:"kind"`
	Entries         float64 `json:"entries"`
	EntriesWithFlow float64 `json:"entries_with_flow"`
	Axis            string  `json:"axis,omitempty"`
}

// Entries lists every object under root that can be plotted.
func Entries(root model.Container) []Entry {
	var out []Entry
	for _, n := range model.Flatten(root, nil) {
		if n.IsContainer() {
			continue
		}
		p, err := plot.AsPlottable(n.Object)
		if err != nil {
			continue
		}
		s := render.Summarize(p)
		out = append(out, Entry{
			Path:            n.Path.String(),
			Kind:            model.KindName(n.Object),
			Entries:         s.InnerSum,
			EntriesWithFlow: s.FullSum,
			Axis:            s.AxisLabel,
		})
	}
	return out
}

// WriteJSON encodes Entries(root) to w.
func WriteJSON(w io.Writer, root model.Container) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(Entries(root))
}
