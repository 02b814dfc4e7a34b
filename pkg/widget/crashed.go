package widget

import (
	"gitlab.com/tinyland/lab/statusbar/pkg/layout"
	"gitlab.com/tinyland/lab/statusbar/pkg/render"
)

// CrashedText is what a failed widget's slot shows.
const CrashedText = "Widget Crashed"

// crashed is the placeholder substituted for a failed widget. None of its
// methods return an error.
type crashed struct {
	Base
	cfg Config
	rc  *render.Context
}

func newCrashed() *crashed {
	return &crashed{cfg: DefaultConfig()}
}

func (w *crashed) Draw(c *render.Canvas, _ layout.Rect) error {
	if w.rc == nil {
		w.rc = render.NewContext()
	}
	face, err := w.rc.Face(w.cfg.Font, w.cfg.FontSize)
	if err != nil {
		return nil
	}
	c.DrawText(face, CrashedText, 0, w.cfg.FgColor)
	return nil
}

func (w *crashed) Size(rc *render.Context) (layout.Size, error) {
	w.rc = rc
	width, err := rc.MeasureText(w.cfg.Font, w.cfg.FontSize, CrashedText)
	if err != nil {
		// Builtin fonts always parse; keep a sane width regardless.
		width = uint32(len(CrashedText)) * 8
	}
	return layout.Static(width), nil
}

func (w *crashed) Padding() uint32 {
	return w.cfg.Padding
}

func (w *crashed) String() string {
	return "Crashed"
}
