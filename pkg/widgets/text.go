// Package widgets provides the concrete widgets shipped with the bar:
// static text, a clock, spacers, image icons, system gauges, battery and
// brightness indicators and the focused window's title, plus FromConfig to
// build them from a config file.
package widgets

import (
	"image/color"

	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
	"gitlab.com/tinyland/lab/statusbar/pkg/widget"
)

// Text displays a string. Other text-based widgets embed it and change the
// string in their Update.
type Text struct {
	widget.Base
	text string
	cfg  widget.Config
	rc   *render.Context
}

// NewText creates a text widget.
func NewText(text string, cfg widget.Config) *Text {
	return &Text{text: text, cfg: cfg}
}

// SetText replaces the displayed string. The bar picks the change up on
// the next relayout.
func (t *Text) SetText(s string) { t.text = s }

// Text returns the displayed string.
func (t *Text) Text() string { return t.text }

// SetColor changes the foreground colour.
func (t *Text) SetColor(c color.RGBA) { t.cfg.FgColor = c }

// Color returns the foreground colour.
func (t *Text) Color() color.RGBA { return t.cfg.FgColor }

func (t *Text) context() *render.Context {
	if t.rc == nil {
		t.rc = render.NewContext()
	}
	return t.rc
}

// Draw paints the text at the left edge of the region, vertically centred.
func (t *Text) Draw(c *render.Canvas, _ layout.Rect) error {
	if t.text == "" {
		return nil
	}
	face, err := t.context().Face(t.cfg.Font, t.cfg.FontSize)
	if err != nil {
		return err
	}
	c.DrawText(face, t.text, 0, t.cfg.FgColor)
	return nil
}

// Size is the text's advance width, or Flex when configured so.
func (t *Text) Size(rc *render.Context) (layout.Size, error) {
	if rc != nil {
		t.rc = rc
	}
	if t.cfg.Flex {
		return layout.Flex(), nil
	}
	w, err := t.context().MeasureText(t.cfg.Font, t.cfg.FontSize, t.text)
	if err != nil {
		return layout.Size{}, err
	}
	return layout.Static(w), nil
}

// Padding is zero for empty text so hidden widgets leave no gap.
func (t *Text) Padding() uint32 {
	if t.text == "" {
		return 0
	}
	return t.cfg.Padding
}

func (t *Text) String() string { return "Text" }
