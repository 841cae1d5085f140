package plot

import (
	"errors"
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	pkgerrors "github.com/pkg/errors"
)

// ErrUnknownTheme is returned by SetTheme for names not in Themes.
var ErrUnknownTheme = errors.New("unknown theme")

// Theme colors the parts of a canvas.
type Theme struct {
	Name  string
	Title lipgloss.Style
	Axis  lipgloss.Style
	Tick  lipgloss.Style
	Label lipgloss.Style
	Bar   lipgloss.Style
	// Heat is the 2-D palette, from lowest to highest density.
	Heat []lipgloss.Color
}

// DefaultTheme is used when no theme has been set.
const DefaultTheme = "default"

func heat(colors ...string) []lipgloss.Color {
	out := make([]lipgloss.Color, len(colors))
	for i, c := range colors {
		out[i] = lipgloss.Color(c)
	}
	return out
}

// Themes are the named color schemes the backend understands.
var Themes = map[string]Theme{
	"default": {
		Title: lipgloss.NewStyle().Bold(true),
		Axis:  lipgloss.NewStyle(),
		Tick:  lipgloss.NewStyle(),
		Label: lipgloss.NewStyle(),
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Heat:  heat("4", "6", "2", "3", "1"),
	},
	"clear": {
		Title: lipgloss.NewStyle(),
		Axis:  lipgloss.NewStyle(),
		Tick:  lipgloss.NewStyle(),
		Label: lipgloss.NewStyle(),
		Bar:   lipgloss.NewStyle(),
	},
	"dark": {
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FAFAFA")),
		Axis:  lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Tick:  lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
		Heat:  heat("17", "25", "33", "81", "159"),
	},
	"pro": {
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		Axis:  lipgloss.NewStyle().Foreground(lipgloss.Color("63")),
		Tick:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("229")),
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("205")),
		Heat:  heat("57", "99", "141", "205", "229"),
	},
	"matrix": {
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		Axis:  lipgloss.NewStyle().Foreground(lipgloss.Color("22")),
		Tick:  lipgloss.NewStyle().Foreground(lipgloss.Color("28")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("34")),
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		Heat:  heat("22", "28", "34", "40", "46"),
	},
	"retro": {
		Title: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
		Axis:  lipgloss.NewStyle().Foreground(lipgloss.Color("94")),
		Tick:  lipgloss.NewStyle().Foreground(lipgloss.Color("136")),
		Label: lipgloss.NewStyle().Foreground(lipgloss.Color("180")),
		Bar:   lipgloss.NewStyle().Foreground(lipgloss.Color("208")),
		Heat:  heat("52", "88", "130", "172", "214"),
	},
}

// LookupTheme returns the named theme.
func LookupTheme(name string) (Theme, error) {
	t, ok := Themes[name]
	if !ok {
		return Theme{}, pkgerrors.WithStack(fmt.Errorf("%w %q", ErrUnknownTheme, name))
	}
	t.Name = name
	return t, nil
}

// ThemeNames lists the theme names in a stable order, default first.
func ThemeNames() []string {
	names := make([]string, 0, len(Themes))
	for n := range Themes {
		if n != DefaultTheme {
			names = append(names, n)
		}
	}
	sort.Strings(names)
	return append([]string{DefaultTheme}, names...)
}

// NextTheme cycles through ThemeNames.
func NextTheme(current string) string {
	names := ThemeNames()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}
