package render

import (
	"histview/internal/model"
	"histview/internal/plot"
)

// Canvas is a finished plot. It is only valid at the size it was built for.
type Canvas struct {
	text          string
	width, height int
}

func (c Canvas) String() string { return c.text }
func (c Canvas) Width() int     { return c.width }
func (c Canvas) Height() int    { return c.height }

// NewCanvas renders item at width x height on a fresh builder. An empty
// theme leaves the backend's default colors.
func NewCanvas(item model.Object, width, height int, theme string) (Canvas, error) {
	return BuildCanvas(plot.NewBuilder(), item, width, height, theme)
}

// BuildCanvas renders item using b, which it clears first. Backend errors
// are returned as they are; a panic inside the backend comes back as a
// *PanicError.
func BuildCanvas(b *plot.Builder, item model.Object, width, height int, theme string) (c Canvas, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = NewPanicError(r)
		}
	}()

	b.Clear()
	b.SetSize(width, height)
	if theme != "" {
		if err := b.SetTheme(theme); err != nil {
			return Canvas{}, err
		}
	}

	h, err := b.Draw(item)
	if err != nil {
		return Canvas{}, err
	}
	s := Summarize(h)
	b.SetTitle(Title(item.Name(), s))
	b.SetXLabel(s.AxisLabel)

	text, err := b.Build()
	if err != nil {
		return Canvas{}, err
	}
	return Canvas{text: text, width: width, height: height}, nil
}
